package functions

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
)

func TestDeleteLayerScenario(t *testing.T) {
	ws := newWorkspace(t, 8, 8, "A", "B", "C")
	b := ws.Document().Layers().At(1)

	m, err := DeleteLayer(1).Execute(ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(ws))
	dm, ok := m.(*history.DeleteLayerMemento)
	require.True(t, ok)
	assert.Equal(t, 1, dm.Index())
	assert.Same(t, b, dm.Layer())

	b.ClearDirty()
	redo, err := m.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(ws))
	assert.Same(t, b, ws.Document().Layers().At(1))
	assert.False(t, b.Dirty().IsEmpty())

	_, err = redo.PerformUndo()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(ws))
}

func TestDeleteLayerPreconditions(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "Only")
	_, err := DeleteLayer(0).Execute(ws)
	assert.ErrorIs(t, err, ErrLastLayer)
	var nonFatal *history.NonFatalError
	assert.ErrorAs(t, err, &nonFatal)

	_, err = DeleteLayer(3).Execute(ws)
	assert.ErrorIs(t, err, history.ErrLayerIndexOutOfRange)
	assert.Equal(t, []string{"Only"}, names(ws))
}

func TestAddAndDuplicateLayer(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "Background", "Ink")
	ws.SetActiveLayerIndex(0)
	stack := ws.History()

	_, err := stack.Execute(AddNewLayer())
	require.NoError(t, err)
	assert.Equal(t, []string{"Background", "Layer 3", "Ink"}, names(ws))
	assert.Equal(t, 1, ws.ActiveLayerIndex())

	_, err = stack.Execute(DuplicateLayer(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"Background", "Layer 3", "Ink", "Ink copy"}, names(ws))
	dup := ws.Document().Layers().At(3)
	assert.True(t, dup.Surface().Equal(ws.Document().Layers().At(2).Surface()))
	assert.NotSame(t, dup.Surface(), ws.Document().Layers().At(2).Surface())
	assert.False(t, dup.IsBackground())

	n, err := stack.Rewind()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"Background", "Ink"}, names(ws))
}

func TestSwapAndMoveLayer(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "A", "B", "C", "D")
	stack := ws.History()
	ws.SetActiveLayerIndex(0)

	_, err := stack.Execute(MoveLayerUp(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C", "D"}, names(ws))
	assert.Equal(t, 1, ws.ActiveLayerIndex())

	_, err = stack.Execute(SwapLayer(0, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "C", "B"}, names(ws))

	_, err = stack.Execute(MoveLayerDown(0))
	assert.ErrorIs(t, err, history.ErrLayerIndexOutOfRange)

	_, err = stack.Rewind()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(ws))
	_, err = stack.FastForward()
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "C", "B"}, names(ws))
}

func TestSwapLayerWithItself(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "A", "B")
	stack := ws.History()

	m, err := stack.Execute(SwapLayer(1, 1))
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 0, stack.UndoCount())
	assert.Equal(t, []string{"A", "B"}, names(ws))

	_, err = stack.Execute(SwapLayer(2, 2))
	assert.ErrorIs(t, err, history.ErrLayerIndexOutOfRange)
}

func TestMergeLayerDown(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "Bottom", "Top")
	before := snapshotLayers(ws)
	top := ws.Document().Layers().At(1)
	top.Surface().Clear(surface.FromRGBA(255, 0, 0, 255))
	before[1] = top.Surface().Clone()

	m, err := ws.History().Execute(MergeLayerDown(1))
	require.NoError(t, err)
	c, ok := m.(*history.CompoundMemento)
	require.True(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"Bottom"}, names(ws))
	assert.Equal(t, surface.FromRGBA(255, 0, 0, 255), ws.Document().Layers().At(0).Surface().At(2, 2))
	assert.Equal(t, 0, ws.ActiveLayerIndex())

	require.NoError(t, ws.History().StepBackward())
	assert.Equal(t, []string{"Bottom", "Top"}, names(ws))
	requireLayers(t, ws, before)

	_, err = MergeLayerDown(0).Execute(ws)
	assert.ErrorIs(t, err, history.ErrLayerIndexOutOfRange)
}

func TestMergeLayerDownSavesOnlyChangedRows(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "Bottom", "Top")
	before := snapshotLayers(ws)
	top := ws.Document().Layers().At(1)
	top.Surface().Clear(surface.Transparent)
	top.Surface().Set(1, 2, surface.Black)
	before[1] = top.Surface().Clone()

	m, err := ws.History().Execute(MergeLayerDown(1))
	require.NoError(t, err)
	c, ok := m.(*history.CompoundMemento)
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
	bm, ok := c.Children()[0].(*history.BitmapMemento)
	require.True(t, ok)
	assert.True(t, bm.Region().Equal(region.FromRect(image.Rect(0, 2, 4, 3))))
	assert.Equal(t, surface.Black, ws.Document().Layers().At(0).Surface().At(1, 2))

	require.NoError(t, ws.History().StepBackward())
	requireLayers(t, ws, before)
}

func TestSetLayerProperties(t *testing.T) {
	ws := newWorkspace(t, 4, 4, "A")
	layer := ws.Document().Layers().At(0)
	props := layer.SaveProperties()

	m, err := SetLayerProperties(0, props).Execute(ws)
	require.NoError(t, err)
	assert.Nil(t, m)

	changed := props.Clone()
	changed.Name = "Renamed"
	changed.Opacity = 128
	changed.BlendMode = surface.BlendMultiply
	_, err = ws.History().Execute(SetLayerProperties(0, changed))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", layer.Name())
	assert.Equal(t, uint8(128), layer.Opacity())

	require.NoError(t, ws.History().StepBackward())
	assert.True(t, layer.SaveProperties().Equal(props))

	_, err = ws.History().Execute(ToggleLayerVisibility(0))
	require.NoError(t, err)
	assert.False(t, layer.Visible())
	require.NoError(t, ws.History().StepBackward())
	assert.True(t, layer.Visible())
}
