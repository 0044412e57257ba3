package history

import (
	"errors"
	"fmt"

	"github.com/bethropolis/easel/internal/core/document"
)

var (
	// ErrMementoConsumed is returned by PerformUndo on a memento that was
	// already undone or flushed.
	ErrMementoConsumed = errors.New("memento already undone or flushed")
	ErrAlreadyExecuted = errors.New("history function already executed")
	ErrNotCancellable  = errors.New("history function is not cancellable")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrStackBusy       = errors.New("history stack is already stepping")

	// ErrLayerIndexOutOfRange matches document.ErrIndexOutOfRange with errors.Is.
	ErrLayerIndexOutOfRange = document.ErrIndexOutOfRange
)

// NonFatalError reports a history function that failed before entering its
// critical region. The workspace was not changed.
type NonFatalError struct {
	Function string
	Err      error
}

func (e *NonFatalError) Error() string {
	return fmt.Sprintf("%s failed, no changes were made: %v", e.Function, e.Err)
}

func (e *NonFatalError) Unwrap() error { return e.Err }

// CriticalError reports a history function that failed inside its critical
// region. The workspace may be partially modified and is not rolled back.
type CriticalError struct {
	Function string
	Err      error
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("%s failed after modifying the document: %v", e.Function, e.Err)
}

func (e *CriticalError) Unwrap() error { return e.Err }

func layerRangeError(index, count int) error {
	return fmt.Errorf("layer %d of %d: %w", index, count, ErrLayerIndexOutOfRange)
}
