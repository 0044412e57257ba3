package history

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformUndoIsOneShot(t *testing.T) {
	var log []string
	m := newRecorder("a", &log)

	redo, err := m.PerformUndo()
	require.NoError(t, err)
	require.NotNil(t, redo)

	_, err = m.PerformUndo()
	assert.ErrorIs(t, err, ErrMementoConsumed)
	assert.Equal(t, []string{"a"}, log)
}

func TestFlushedMementoCannotBeUndone(t *testing.T) {
	var log []string
	m := newRecorder("a", &log)
	m.Flush()
	m.Flush()

	_, err := m.PerformUndo()
	assert.ErrorIs(t, err, ErrMementoConsumed)
	assert.Equal(t, []string{"flush a"}, log)
}

func TestInverseKeepsIdentity(t *testing.T) {
	var log []string
	m := newRecorder("a", &log)
	series := NewSeriesID()
	SetSeries(m, series)

	redo, err := m.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, m.Info().ID, redo.Info().ID)
	assert.Equal(t, series, redo.Info().SeriesID)

	again, err := redo.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, m.Info().ID, again.Info().ID)
}

func TestIDsAreUnique(t *testing.T) {
	var log []string
	a, b := newRecorder("a", &log), newRecorder("b", &log)
	assert.NotEqual(t, a.Info().ID, b.Info().ID)
	assert.Equal(t, uuid.Nil, a.Info().SeriesID)
}

func TestFailedUndoConsumesMemento(t *testing.T) {
	var log []string
	m := newRecorder("a", &log)
	m.fail = true

	_, err := m.PerformUndo()
	assert.ErrorIs(t, err, errRecorder)
	_, err = m.PerformUndo()
	assert.ErrorIs(t, err, ErrMementoConsumed)
}
