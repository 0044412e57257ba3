package functions

import (
	"image"

	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/surface"
)

// Deselect clears the selection. With nothing selected it does nothing.
func Deselect() *history.Function {
	return history.NewFunction(DeselectName, SelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		sel := ws.Selection()
		if sel.IsEmpty() {
			return nil, nil
		}
		m := history.NewSelectionMemento(DeselectName, SelectionImage, ws)

		run.EnterCriticalRegion()
		sel.Reset()
		return m, nil
	})
}

// SelectAll selects the whole document.
func SelectAll() *history.Function {
	return history.NewFunction(SelectAllName, SelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		m := history.NewSelectionMemento(SelectAllName, SelectionImage, ws)
		run.EnterCriticalRegion()
		replaceSelection(ws.Selection(), region.FromRect(ws.Document().Bounds()))
		return m, nil
	})
}

// SelectRect combines r, clipped to the document, into the selection.
func SelectRect(r image.Rectangle, mode selection.CombineMode) *history.Function {
	return history.NewFunction(SelectRectName, SelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		r = r.Intersect(ws.Document().Bounds())
		if r.Empty() && mode != selection.Replace {
			return nil, nil
		}
		sel := ws.Selection()
		m := history.NewSelectionMemento(SelectRectName, SelectionImage, ws)

		run.EnterCriticalRegion()
		sel.PerformChanging()
		defer sel.PerformChanged()
		sel.SetContinuation(region.FromRect(r), mode)
		sel.CommitContinuation()
		return m, nil
	})
}

// InvertSelection selects everything in the document that is not
// selected. With nothing selected it does nothing.
func InvertSelection() *history.Function {
	return history.NewFunction(InvertSelectionName, SelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		sel := ws.Selection()
		if sel.IsEmpty() {
			return nil, nil
		}
		inverted := sel.Region().Complement(ws.Document().Bounds())
		m := history.NewSelectionMemento(InvertSelectionName, SelectionImage, ws)

		run.EnterCriticalRegion()
		replaceSelection(sel, inverted)
		return m, nil
	})
}

// replaceSelection installs rg as the committed selection with a single
// pair of change notifications.
func replaceSelection(sel *selection.Selection, rg region.Region) {
	sel.PerformChanging()
	defer sel.PerformChanged()
	sel.Reset()
	sel.SetContinuation(rg, selection.Replace)
	sel.CommitContinuation()
}

// FillSelection paints the selected pixels of the active layer with c.
func FillSelection(c surface.BGRA) *history.Function {
	return history.NewFunction(FillSelectionName, FillSelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		sel := ws.Selection()
		if sel.IsEmpty() {
			return nil, nil
		}
		index := ws.ActiveLayerIndex()
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		layer := ws.ActiveLayer()
		rg := sel.Region()
		m, err := history.NewBitmapMemento(FillSelectionName, FillSelectionImage, ws, index, rg)
		if err != nil {
			return nil, err
		}

		run.EnterCriticalRegion()
		layer.Surface().ClearRegion(rg, c)
		layer.InvalidateRegion(rg)
		return m, nil
	})
}

// EraseSelection makes the selected pixels of the active layer
// transparent and then deselects.
func EraseSelection() *history.Function {
	return history.NewFunction(EraseSelectionName, EraseSelectionImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		sel := ws.Selection()
		if sel.IsEmpty() {
			return nil, nil
		}
		index := ws.ActiveLayerIndex()
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		layer := ws.ActiveLayer()
		rg := sel.Region()
		sm := history.NewSelectionMemento("", "", ws)
		bm, err := history.NewBitmapMemento("", "", ws, index, rg)
		if err != nil {
			sm.Flush()
			return nil, err
		}
		c := history.NewCompoundMemento(EraseSelectionName, EraseSelectionImage, sm, bm)

		run.EnterCriticalRegion()
		layer.Surface().ClearRegion(rg, surface.TransparentWhite)
		layer.InvalidateRegion(rg)
		sel.Reset()
		return c, nil
	})
}
