package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundUndoOrder(t *testing.T) {
	var log []string
	c := NewCompoundMemento("abc", "", newRecorder("a", &log), newRecorder("b", &log), newRecorder("c", &log))

	redo, err := c.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, log)

	log = nil
	undo, err := redo.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, log)

	log = nil
	_, err = undo.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, log)
}

func TestCompoundSkipsNilChildren(t *testing.T) {
	var log []string
	c := NewCompoundMemento("mixed", "", nil, newRecorder("a", &log), nil)
	c.PushNewAction(newRecorder("b", &log))
	c.PushNewAction(nil)
	require.Equal(t, 5, c.Len())

	redo, err := c.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, log)

	rc := redo.(*CompoundMemento)
	assert.Equal(t, 5, rc.Len())
	assert.Nil(t, rc.Children()[0])
	assert.Nil(t, rc.Children()[2])
	assert.Nil(t, rc.Children()[4])

	log = nil
	_, err = redo.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, log)
}

func TestCompoundPushNewActionOrder(t *testing.T) {
	var log []string
	c := NewCompoundMemento("built", "")
	c.PushNewAction(newRecorder("deselect", &log))
	c.PushNewAction(newRecorder("replace", &log))
	c.PushNewAction(newRecorder("restore", &log))

	_, err := c.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"restore", "replace", "deselect"}, log)
}

func TestCompoundFailureFlushesCollectedInverses(t *testing.T) {
	var log []string
	a, b, c := newRecorder("a", &log), newRecorder("b", &log), newRecorder("c", &log)
	b.fail = true
	comp := NewCompoundMemento("abc", "", a, b, c)

	_, err := comp.PerformUndo()
	assert.ErrorIs(t, err, errRecorder)
	// c was undone; its inverse was flushed. a was never reached.
	assert.Equal(t, []string{"c", "flush c"}, log)

	log = nil
	comp.Flush()
	assert.True(t, a.flushed())
	assert.Contains(t, log, "flush a")
}

func TestCompoundFlushCascades(t *testing.T) {
	var log []string
	c := NewCompoundMemento("abc", "", newRecorder("a", &log), nil, newRecorder("b", &log))
	c.Flush()
	c.Flush()
	assert.Equal(t, []string{"flush a", "flush b"}, log)

	_, err := c.PerformUndo()
	assert.ErrorIs(t, err, ErrMementoConsumed)
}
