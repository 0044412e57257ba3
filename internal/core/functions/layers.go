package functions

import (
	"fmt"
	"image"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
)

// AddNewLayer inserts a transparent layer above the active one and makes
// it active.
func AddNewLayer() *history.Function {
	return history.NewFunction(AddNewLayerName, AddNewLayerImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		doc := ws.Document()
		index := ws.ActiveLayerIndex() + 1
		layer := document.NewLayer(doc.Width(), doc.Height(), fmt.Sprintf("Layer %d", doc.Layers().Len()+1))
		m := history.NewNewLayerMemento(AddNewLayerName, AddNewLayerImage, ws, index)

		run.EnterCriticalRegion()
		if err := doc.Layers().Insert(index, layer); err != nil {
			return m, err
		}
		layer.Invalidate()
		ws.SetActiveLayerIndex(index)
		return m, nil
	})
}

// DeleteLayer removes the layer at index. The memento keeps the detached
// layer so undo can put it back.
func DeleteLayer(index int) *history.Function {
	return history.NewFunction(DeleteLayerName, DeleteLayerImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		layers := ws.Document().Layers()
		if layers.Len() == 1 {
			return nil, ErrLastLayer
		}
		m, err := history.NewDeleteLayerMemento(DeleteLayerName, DeleteLayerImage, ws, layers.At(index))
		if err != nil {
			return nil, err
		}

		run.EnterCriticalRegion()
		if _, err := layers.RemoveAt(index); err != nil {
			return m, err
		}
		history.ClampActiveLayer(ws)
		ws.Document().Invalidate()
		return m, nil
	})
}

// DuplicateLayer inserts a copy of the layer at index directly above it.
// The copy is never a background layer.
func DuplicateLayer(index int) *history.Function {
	return history.NewFunction(DuplicateLayerName, DuplicateLayerImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		layers := ws.Document().Layers()
		src := layers.At(index)
		dup := src.Clone()
		props := dup.SaveProperties()
		props.IsBackground = false
		props.Name = src.Name() + " copy"
		dup.LoadProperties(props)
		m := history.NewNewLayerMemento(DuplicateLayerName, DuplicateLayerImage, ws, index+1)

		run.EnterCriticalRegion()
		if err := layers.Insert(index+1, dup); err != nil {
			return m, err
		}
		dup.Invalidate()
		ws.SetActiveLayerIndex(index + 1)
		return m, nil
	})
}

// SwapLayer exchanges the layers at index1 and index2. The active layer
// follows the layer it pointed at.
func SwapLayer(index1, index2 int) *history.Function {
	return swapLayer(SwapLayerName, index1, index2)
}

// MoveLayerUp swaps the layer at index with the one above it.
func MoveLayerUp(index int) *history.Function {
	return swapLayer(MoveLayerUpName, index, index+1)
}

// MoveLayerDown swaps the layer at index with the one below it.
func MoveLayerDown(index int) *history.Function {
	return swapLayer(MoveLayerDownName, index, index-1)
}

func swapLayer(name string, index1, index2 int) *history.Function {
	return history.NewFunction(name, MoveLayerImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		m, err := history.NewSwapLayerMemento(name, MoveLayerImage, ws, index1, index2)
		if err != nil {
			return nil, err
		}
		if index1 == index2 {
			return nil, nil
		}
		layers := ws.Document().Layers()
		layer1, layer2 := layers.At(index1), layers.At(index2)

		run.EnterCriticalRegion()
		if err := layers.Swap(index1, index2); err != nil {
			return m, err
		}
		layer1.Invalidate()
		layer2.Invalidate()
		switch ws.ActiveLayerIndex() {
		case index1:
			ws.SetActiveLayerIndex(index2)
		case index2:
			ws.SetActiveLayerIndex(index1)
		}
		return m, nil
	})
}

// MergeLayerDown renders the layer at index onto the one below and then
// deletes it. index must be at least 1.
func MergeLayerDown(index int) *history.Function {
	return history.NewFunction(MergeLayerDownName, MergeLayerDownImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if index < 1 {
			return nil, fmt.Errorf("merge layer %d down: %w", index, history.ErrLayerIndexOutOfRange)
		}
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		doc := ws.Document()
		top, bottom := doc.Layers().At(index), doc.Layers().At(index-1)
		before := bottom.Surface().Clone()
		c := history.NewCompoundMemento(MergeLayerDownName, MergeLayerDownImage)

		run.EnterCriticalRegion()
		top.Render(bottom.Surface())
		if changed := changedRows(before, bottom.Surface()); !changed.IsEmpty() {
			bm, err := history.NewBitmapMementoFrom("", "", ws, index-1, changed, before)
			if err != nil {
				bottom.Surface().CopyFrom(before)
				return nil, err
			}
			c.PushNewAction(bm)
			bottom.InvalidateRegion(changed)
		}
		dm, err := run.Execute(DeleteLayer(index), ws)
		if err != nil {
			return c, err
		}
		c.PushNewAction(dm)
		ws.SetActiveLayerIndex(index - 1)
		return c, nil
	})
}

// changedRows covers the rows where a and b differ, as full-width bands.
func changedRows(a, b *surface.Surface) region.Region {
	var rects []image.Rectangle
	w := a.Width()
	for y := 0; y < a.Height(); y++ {
		row := image.Rect(0, y, w, y+1)
		if a.EqualIn(b, row) {
			continue
		}
		if n := len(rects); n > 0 && rects[n-1].Max.Y == y {
			rects[n-1].Max.Y = y + 1
			continue
		}
		rects = append(rects, row)
	}
	return region.FromRects(rects...)
}

// SetLayerProperties replaces the property bag of the layer at index.
// Setting identical properties produces no history entry.
func SetLayerProperties(index int, props document.Properties) *history.Function {
	return history.NewFunction(LayerPropertiesName, LayerPropertiesImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		layer := ws.Document().Layers().At(index)
		if layer.SaveProperties().Equal(props) {
			return nil, nil
		}
		m, err := history.NewLayerPropertyMemento(LayerPropertiesName, LayerPropertiesImage, ws, index)
		if err != nil {
			return nil, err
		}

		run.EnterCriticalRegion()
		layer.LoadProperties(props)
		return m, nil
	})
}

// ToggleLayerVisibility shows or hides the layer at index.
func ToggleLayerVisibility(index int) *history.Function {
	return history.NewFunction(LayerPropertiesName, LayerPropertiesImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		props := ws.Document().Layers().At(index).SaveProperties()
		props.Visible = !props.Visible
		return run.Execute(SetLayerProperties(index, props), ws)
	})
}
