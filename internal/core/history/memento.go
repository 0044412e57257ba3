// Package history implements undo and redo for documents: mementos that
// know how to reverse one change, the functions that perform changes and
// capture them, and the bounded stack that orders them.
package history

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bethropolis/easel/internal/logger"
)

// Info is the display data of a memento, used by history lists.
type Info struct {
	ID       int64
	SeriesID uuid.UUID
	Name     string
	Image    string
}

// Memento is one reversible change.
//
// PerformUndo restores the state captured when the memento was created and
// returns a memento that re-applies the change. It may be called once.
// Flush releases held resources without undoing; a flushed memento can no
// longer be undone. Both consume the memento, and PerformUndo on a
// consumed memento returns ErrMementoConsumed.
type Memento interface {
	Info() Info
	PerformUndo() (Memento, error)
	Flush()
}

// Data is the payload a memento owns. Dispose releases it and must be
// idempotent.
type Data interface {
	Dispose()
}

type mementoState uint8

const (
	statePending mementoState = iota
	stateUndone
	stateFlushed
)

var nextID atomic.Int64

// base carries the state shared by every memento kind.
type base struct {
	info  Info
	data  Data
	state mementoState
}

func newBase(name, image string) base {
	return base{info: Info{ID: nextID.Add(1), Name: name, Image: image}}
}

type identified interface {
	identity() *base
}

func (b *base) identity() *base { return b }

// Info returns the display data.
func (b *base) Info() Info { return b.info }

// Flush releases the payload.
func (b *base) Flush() { b.flush(nil) }

func (b *base) flush(cascade func()) {
	if b.state == stateFlushed {
		return
	}
	b.state = stateFlushed
	if cascade != nil {
		cascade()
	}
	b.dispose()
	logger.DebugTagf("history", "Memento: flushed %q #%d", b.info.Name, b.info.ID)
}

func (b *base) dispose() {
	if b.data != nil {
		b.data.Dispose()
		b.data = nil
	}
}

// perform runs the one-shot undo transition. The payload is released
// afterwards whether or not onUndo succeeded, and the returned memento
// inherits this memento's ID and series.
func (b *base) perform(onUndo func() (Memento, error)) (Memento, error) {
	if b.state != statePending {
		return nil, fmt.Errorf("%w: %q #%d", ErrMementoConsumed, b.info.Name, b.info.ID)
	}
	b.state = stateUndone
	defer b.dispose()

	redo, err := onUndo()
	if err != nil {
		return nil, fmt.Errorf("undo %q: %w", b.info.Name, err)
	}
	if redo == nil {
		return nil, fmt.Errorf("undo %q: %w", b.info.Name, errors.New("no inverse memento produced"))
	}
	if id, ok := redo.(identified); ok {
		r := id.identity()
		r.info.ID = b.info.ID
		r.info.SeriesID = b.info.SeriesID
	}
	logger.DebugTagf("history", "Memento: undid %q #%d", b.info.Name, b.info.ID)
	return redo, nil
}

// NewSeriesID returns a fresh identifier for grouping mementos into a series.
func NewSeriesID() uuid.UUID {
	return uuid.New()
}

// SetSeries tags m as part of series id. Consecutive mementos sharing a
// non-nil series can be undone together with Stack.StepBackwardSeries.
func SetSeries(m Memento, id uuid.UUID) {
	if idm, ok := m.(identified); ok {
		idm.identity().info.SeriesID = id
	}
}
