package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/easel/internal/logger"
)

// Flags describe optional capabilities of a history function.
type Flags int

const (
	// Cancellable functions honor RequestCancel and context cancellation.
	Cancellable Flags = 1 << iota
	// ReportsProgress functions publish progress through OnProgress.
	ReportsProgress
)

// FunctionState is the lifecycle of one function invocation.
type FunctionState int32

const (
	NotStarted FunctionState = iota
	Running
	Committed
	Cancelled
	Failed
)

func (s FunctionState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("FunctionState(%d)", int32(s))
}

// Body performs the change against ws and returns the memento that
// reverses it, or nil when there was nothing to do. It must build each
// memento before mutating the state the memento captures, and call
// run.EnterCriticalRegion before its first irreversible mutation.
type Body func(run *Run, ws Workspace) (Memento, error)

// Function is a single-use command that changes a workspace and returns
// the memento that reverses the change.
type Function struct {
	name  string
	image string
	flags Flags
	body  Body

	state      atomic.Int32
	cancel     atomic.Bool
	progressMu sync.Mutex
	progress   func(percent float64)
}

// NewFunction wraps body as a named history function.
func NewFunction(name, image string, flags Flags, body Body) *Function {
	return &Function{name: name, image: image, flags: flags, body: body}
}

func (f *Function) Name() string  { return f.name }
func (f *Function) Image() string { return f.image }
func (f *Function) Flags() Flags  { return f.flags }

// State returns the current lifecycle state.
func (f *Function) State() FunctionState { return FunctionState(f.state.Load()) }

// Cancellable reports whether the function honors cancellation.
func (f *Function) Cancellable() bool { return f.flags&Cancellable != 0 }

// OnProgress installs the progress callback. It runs on the goroutine
// executing the function.
func (f *Function) OnProgress(fn func(percent float64)) {
	f.progressMu.Lock()
	defer f.progressMu.Unlock()
	f.progress = fn
}

func (f *Function) progressFunc() func(float64) {
	f.progressMu.Lock()
	defer f.progressMu.Unlock()
	return f.progress
}

// RequestCancel asks a running cancellable function to stop at its next
// checkpoint. It is safe to call from any goroutine.
func (f *Function) RequestCancel() error {
	if !f.Cancellable() {
		return ErrNotCancellable
	}
	f.cancel.Store(true)
	logger.DebugTagf("history", "Function %q: cancel requested", f.name)
	return nil
}

// Execute runs the function once against ws. See ExecuteContext.
func (f *Function) Execute(ws Workspace) (Memento, error) {
	return f.ExecuteContext(context.Background(), ws)
}

// ExecuteContext runs the function once against ws. A nil memento with a
// nil error means nothing changed. Failures before the critical region
// are returned as *NonFatalError and leave ws untouched; failures inside
// it are returned as *CriticalError. Cancelling ctx acts like
// RequestCancel for cancellable functions.
func (f *Function) ExecuteContext(ctx context.Context, ws Workspace) (Memento, error) {
	if !f.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		return nil, fmt.Errorf("%s: %w", f.name, ErrAlreadyExecuted)
	}
	logger.DebugTagf("history", "Function %q: executing", f.name)

	run := &Run{fn: f, ctx: ctx}
	m, err := f.invoke(run, ws)

	switch {
	case err != nil:
		f.state.Store(int32(Failed))
	case m == nil && run.PleaseCancel():
		f.state.Store(int32(Cancelled))
		logger.DebugTagf("history", "Function %q: cancelled", f.name)
	default:
		f.state.Store(int32(Committed))
	}
	return m, err
}

// Start runs the function on a new goroutine and delivers the outcome on
// the returned channel. The caller must not touch ws until it arrives.
func (f *Function) Start(ctx context.Context, ws Workspace) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		m, err := f.ExecuteContext(ctx, ws)
		done <- Result{Function: f, Memento: m, Err: err}
	}()
	return done
}

// Result is the outcome of an asynchronous execution.
type Result struct {
	Function *Function
	Memento  Memento
	Err      error
}

func (f *Function) invoke(run *Run, ws Workspace) (m Memento, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if run.InCriticalRegion() {
			logger.Errorf("History: function %q panicked inside its critical region, document state is undefined: %v", f.name, r)
			panic(r)
		}
		m, err = nil, &NonFatalError{Function: f.name, Err: fmt.Errorf("panic: %v", r)}
	}()

	m, err = f.body(run, ws)
	if err == nil {
		return m, nil
	}
	if m != nil {
		m.Flush()
		m = nil
	}
	if run.InCriticalRegion() {
		logger.Errorf("History: function %q failed inside its critical region, document state is undefined: %v", f.name, err)
		return nil, &CriticalError{Function: f.name, Err: err}
	}
	var nonFatal *NonFatalError
	if errors.As(err, &nonFatal) {
		return nil, err
	}
	logger.Warnf("History: function %q failed before changing anything: %v", f.name, err)
	return nil, &NonFatalError{Function: f.name, Err: err}
}

// Run is the view a function body has of its own execution.
type Run struct {
	fn       *Function
	ctx      context.Context
	critical int
}

// Context returns the context the function was started with.
func (r *Run) Context() context.Context { return r.ctx }

// EnterCriticalRegion marks the start of irreversible mutation. Failures
// from here on are reported as *CriticalError.
func (r *Run) EnterCriticalRegion() {
	r.critical++
}

// InCriticalRegion reports whether EnterCriticalRegion was called.
func (r *Run) InCriticalRegion() bool {
	return r.critical > 0
}

// PleaseCancel reports whether the function should stop. Bodies poll it
// between large units of work.
func (r *Run) PleaseCancel() bool {
	if !r.fn.Cancellable() {
		return false
	}
	return r.fn.cancel.Load() || r.ctx.Err() != nil
}

// ReportProgress publishes progress, clamped to [0, 100].
func (r *Run) ReportProgress(percent float64) {
	if r.fn.flags&ReportsProgress == 0 {
		logger.DebugTagf("history", "Function %q reported progress without the ReportsProgress flag", r.fn.name)
		return
	}
	if cb := r.fn.progressFunc(); cb != nil {
		cb(min(max(percent, 0), 100))
	}
}

// Execute runs a nested function against ws as part of this one and
// shares its context and cancellation request.
func (r *Run) Execute(sub *Function, ws Workspace) (Memento, error) {
	if r.fn.cancel.Load() && sub.Cancellable() {
		sub.cancel.Store(true)
	}
	return sub.ExecuteContext(r.ctx, ws)
}
