package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
)

const DefaultMaxDepth = 50

// Stack keeps the undo and redo lists of one workspace. Pushing a new
// memento discards the redo list; the undo list is bounded and the oldest
// entries fall off the bottom. Every memento that leaves the stack without
// being undone is flushed.
type Stack struct {
	mu       sync.Mutex
	ws       Workspace
	events   *event.Manager
	maxDepth int

	undo []Memento // oldest first
	redo []Memento // next redo last

	stepping       bool
	stepGroupDepth int
}

// NewStack creates a stack for ws. events may be nil.
func NewStack(ws Workspace, events *event.Manager, maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{
		ws:       ws,
		events:   events,
		maxDepth: maxDepth,
	}
}

// Workspace returns the workspace the stack applies mementos to.
func (s *Stack) Workspace() Workspace { return s.ws }

// MaxDepth returns the undo limit.
func (s *Stack) MaxDepth() int { return s.maxDepth }

// Execute runs fn against the workspace and pushes its memento, if any.
func (s *Stack) Execute(fn *Function) (Memento, error) {
	return s.ExecuteContext(context.Background(), fn)
}

// ExecuteContext runs fn with ctx and pushes its memento, if any. A
// function that fails leaves the stack unchanged.
func (s *Stack) ExecuteContext(ctx context.Context, fn *Function) (Memento, error) {
	if fn.progressFunc() == nil {
		name := fn.Name()
		fn.OnProgress(func(percent float64) {
			s.events.Dispatch(event.TypeFunctionProgress, event.FunctionProgressData{Name: name, Percent: percent})
		})
	}
	m, err := fn.ExecuteContext(ctx, s.ws)
	if err != nil {
		return nil, err
	}
	s.PushNewMemento(m)
	return m, nil
}

// PushNewMemento records m as the newest undo entry. Nil is ignored.
func (s *Stack) PushNewMemento(m Memento) {
	if m == nil {
		return
	}
	s.events.Dispatch(event.TypeHistoryChanging, nil)

	s.mu.Lock()
	flushed := s.takeRedo()
	s.undo = append(s.undo, m)
	if over := len(s.undo) - s.maxDepth; over > 0 {
		flushed = append(flushed, s.undo[:over]...)
		s.undo = append([]Memento(nil), s.undo[over:]...)
	}
	s.mu.Unlock()

	flushAll(flushed)
	info := m.Info()
	logger.DebugTagf("history", "History: pushed %q #%d, evicted %d", info.Name, info.ID, len(flushed))
	s.events.Dispatch(event.TypeNewMemento, event.HistoryData{ID: info.ID, Name: info.Name})
	s.changed()
}

// StepBackward undoes the newest entry and moves its inverse to the redo
// list. If the undo fails, the entry is flushed and dropped and the error
// is returned.
func (s *Stack) StepBackward() error {
	return s.step(true)
}

// StepForward redoes the most recently undone entry.
func (s *Stack) StepForward() error {
	return s.step(false)
}

func (s *Stack) step(backward bool) error {
	s.mu.Lock()
	from, empty := &s.redo, ErrNothingToRedo
	if backward {
		from, empty = &s.undo, ErrNothingToUndo
	}
	if s.stepping {
		s.mu.Unlock()
		return ErrStackBusy
	}
	if len(*from) == 0 {
		s.mu.Unlock()
		return empty
	}
	m := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	s.stepping = true
	s.mu.Unlock()

	s.events.Dispatch(event.TypeHistoryChanging, nil)
	info := m.Info()
	inv, err := m.PerformUndo()

	s.mu.Lock()
	s.stepping = false
	if err == nil {
		if backward {
			s.redo = append(s.redo, inv)
		} else {
			s.undo = append(s.undo, inv)
		}
	}
	s.mu.Unlock()

	if err != nil {
		m.Flush()
		logger.Errorf("History: failed to step %s over %q #%d, entry dropped: %v", direction(backward), info.Name, info.ID, err)
		s.changed()
		return fmt.Errorf("step %s: %w", direction(backward), err)
	}

	logger.DebugTagf("history", "History: stepped %s over %q #%d", direction(backward), info.Name, info.ID)
	kind := event.TypeSteppedForward
	if backward {
		kind = event.TypeSteppedBackward
	}
	s.events.Dispatch(kind, event.HistoryData{ID: info.ID, Name: info.Name})
	s.changed()
	return nil
}

func direction(backward bool) string {
	if backward {
		return "backward"
	}
	return "forward"
}

// StepBackwardSeries undoes the newest entry and every entry below it that
// shares its non-nil series ID. It returns the number of steps taken.
func (s *Stack) StepBackwardSeries() (int, error) {
	series := s.topSeries()
	if err := s.StepBackward(); err != nil {
		return 0, err
	}
	n := 1
	for series != uuid.Nil && s.topSeries() == series {
		if err := s.StepBackward(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Stack) topSeries() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return uuid.Nil
	}
	return s.undo[len(s.undo)-1].Info().SeriesID
}

// Rewind undoes every entry. It returns the number of steps taken.
func (s *Stack) Rewind() (int, error) {
	return s.repeat(s.StepBackward, ErrNothingToUndo)
}

// FastForward redoes every entry. It returns the number of steps taken.
func (s *Stack) FastForward() (int, error) {
	return s.repeat(s.StepForward, ErrNothingToRedo)
}

func (s *Stack) repeat(step func() error, done error) (int, error) {
	s.BeginStepGroup()
	defer s.EndStepGroup()
	n := 0
	for {
		err := step()
		if errors.Is(err, done) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// BeginStepGroup opens a group of steps that the UI should treat as one.
func (s *Stack) BeginStepGroup() {
	s.mu.Lock()
	s.stepGroupDepth++
	s.mu.Unlock()
}

// EndStepGroup closes a group. Closing the outermost group dispatches
// FinishedStepGroup.
func (s *Stack) EndStepGroup() {
	s.mu.Lock()
	if s.stepGroupDepth == 0 {
		s.mu.Unlock()
		logger.Warnf("History: EndStepGroup without BeginStepGroup")
		return
	}
	s.stepGroupDepth--
	finished := s.stepGroupDepth == 0
	s.mu.Unlock()

	if finished {
		s.events.Dispatch(event.TypeFinishedStepGroup, nil)
	}
}

// IsExecutingMemento reports whether an undo or redo is in progress.
func (s *Stack) IsExecutingMemento() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepping
}

// ClearRedo flushes and discards the redo list.
func (s *Stack) ClearRedo() {
	s.mu.Lock()
	flushed := s.takeRedo()
	s.mu.Unlock()
	if len(flushed) == 0 {
		return
	}
	flushAll(flushed)
	s.changed()
}

// ClearAll flushes and discards every entry.
func (s *Stack) ClearAll() {
	s.events.Dispatch(event.TypeHistoryChanging, nil)
	s.mu.Lock()
	flushed := append(s.takeRedo(), s.undo...)
	s.undo = nil
	s.mu.Unlock()

	flushAll(flushed)
	logger.DebugTagf("history", "History: cleared, flushed %d entries", len(flushed))
	s.events.Dispatch(event.TypeHistoryFlushed, nil)
	s.changed()
}

// Close flushes every entry. The stack stays usable.
func (s *Stack) Close() {
	s.ClearAll()
}

func (s *Stack) CanUndo() bool { return s.UndoCount() > 0 }
func (s *Stack) CanRedo() bool { return s.RedoCount() > 0 }

func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

func (s *Stack) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo)
}

// UndoEntries lists the undo entries, oldest first.
func (s *Stack) UndoEntries() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return infos(s.undo, false)
}

// RedoEntries lists the redo entries, next redo first.
func (s *Stack) RedoEntries() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return infos(s.redo, true)
}

func infos(ms []Memento, reverse bool) []Info {
	out := make([]Info, len(ms))
	for i, m := range ms {
		if reverse {
			out[len(ms)-1-i] = m.Info()
		} else {
			out[i] = m.Info()
		}
	}
	return out
}

// takeRedo empties the redo list and returns it. Callers hold s.mu.
func (s *Stack) takeRedo() []Memento {
	r := s.redo
	s.redo = nil
	return r
}

func (s *Stack) changed() {
	s.mu.Lock()
	data := event.HistoryChangedData{UndoCount: len(s.undo), RedoCount: len(s.redo)}
	s.mu.Unlock()
	s.events.Dispatch(event.TypeHistoryChanged, data)
}

func flushAll(ms []Memento) {
	for _, m := range ms {
		m.Flush()
	}
}
