package app

import (
	"context"
	"errors"
	"image"
	"math"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bethropolis/easel/internal/core/functions"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/tui"
)

// fillHueStep spaces successive fill colors around the hue wheel.
const fillHueStep = 47.0

// HandleAction performs one decoded action and reports whether the screen
// needs a redraw. While a background function runs only cancel and quit
// are accepted.
func (a *App) HandleAction(ev input.ActionEvent) bool {
	if fn := a.Running(); fn != nil {
		switch ev.Action {
		case input.ActionCancel, input.ActionQuit:
			a.cancelRunning(fn)
			if ev.Action == input.ActionQuit {
				a.requestQuit()
			}
		default:
			a.statusBar.SetTemporaryMessage("%s is running, Esc to cancel", fn.Name())
		}
		return true
	}

	switch ev.Action {
	case input.ActionUnknown:
		return false
	case input.ActionQuit:
		a.requestQuit()
		return false
	case input.ActionCancel:
		a.statusBar.ResetTemporaryMessage()
	case input.ActionToggleHistoryPanel:
		a.showHistory = !a.showHistory
	case input.ActionYankHistory:
		a.yankHistory()

	case input.ActionUndo, input.ActionRedo, input.ActionUndoSeries,
		input.ActionRewind, input.ActionFastForward, input.ActionClearRedo:
		a.step(ev.Action)

	case input.ActionNextLayer, input.ActionPreviousLayer:
		a.selectLayer(ev.Action == input.ActionPreviousLayer)

	case input.ActionRotateClockwise:
		a.start(functions.RotateDocument(surface.Rotate90CW))
	case input.ActionRotateCounterClockwise:
		a.start(functions.RotateDocument(surface.Rotate90CCW))
	case input.ActionRotate180:
		a.start(functions.RotateDocument(surface.Rotate180))
	case input.ActionResizeHalf, input.ActionResizeDouble:
		a.start(a.resizeFunction(ev.Action == input.ActionResizeDouble))

	default:
		fn := a.function(ev.Action)
		if fn == nil {
			logger.Warnf("App: no handler for action %v", ev.Action)
			return false
		}
		a.execute(ev.Action, fn)
	}
	return true
}

// function builds the history function for an action that runs in place.
func (a *App) function(action input.Action) *history.Function {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := a.ws.ActiveLayerIndex()
	bounds := a.ws.Document().Bounds()

	switch action {
	case input.ActionAddLayer:
		return functions.AddNewLayer()
	case input.ActionDeleteLayer:
		return functions.DeleteLayer(active)
	case input.ActionDuplicateLayer:
		return functions.DuplicateLayer(active)
	case input.ActionMoveLayerUp:
		return functions.MoveLayerUp(active)
	case input.ActionMoveLayerDown:
		return functions.MoveLayerDown(active)
	case input.ActionMergeLayerDown:
		return functions.MergeLayerDown(active)
	case input.ActionToggleLayerVisibility:
		return functions.ToggleLayerVisibility(active)
	case input.ActionSelectAll:
		return functions.SelectAll()
	case input.ActionDeselect:
		return functions.Deselect()
	case input.ActionInvertSelection:
		return functions.InvertSelection()
	case input.ActionSelectCenter:
		return functions.SelectRect(centerRect(bounds), selection.Replace)
	case input.ActionFillSelection:
		return functions.FillSelection(a.nextFillColor())
	case input.ActionEraseSelection:
		return functions.EraseSelection()
	case input.ActionFlipHorizontal:
		return functions.FlipDocument(surface.FlipHorizontal)
	case input.ActionFlipVertical:
		return functions.FlipDocument(surface.FlipVertical)
	case input.ActionFlipLayerHorizontal:
		return functions.FlipLayer(active, surface.FlipHorizontal)
	case input.ActionCropToSelection:
		return functions.CropToSelection()
	case input.ActionFlatten:
		return functions.Flatten()
	case input.ActionNewImage:
		return functions.NewImage(a.cfg.Document.Width, a.cfg.Document.Height)
	}
	return nil
}

// centerRect is the middle half of r in each direction.
func centerRect(r image.Rectangle) image.Rectangle {
	dx, dy := r.Dx()/4, r.Dy()/4
	return image.Rect(r.Min.X+dx, r.Min.Y+dy, r.Max.X-dx, r.Max.Y-dy)
}

// nextFillColor walks the hue wheel so consecutive fills differ.
func (a *App) nextFillColor() surface.BGRA {
	hue := math.Mod(float64(a.fillCount)*fillHueStep, 360)
	a.fillCount++
	r, g, b := colorful.Hsv(hue, 0.7, 0.95).Clamped().RGB255()
	return surface.FromRGBA(r, g, b, 255)
}

func (a *App) resizeFunction(double bool) *history.Function {
	a.mu.Lock()
	w, h := a.ws.Document().Width(), a.ws.Document().Height()
	a.mu.Unlock()
	if double {
		return functions.ResizeDocument(w*2, h*2, surface.ResampleNearest)
	}
	return functions.ResizeDocument(max(1, w/2), max(1, h/2), surface.ResampleBilinear)
}

// execute runs fn to completion on the calling goroutine. action names
// the key binding that built fn, or ActionUnknown for commands.
func (a *App) execute(action input.Action, fn *history.Function) {
	a.mu.Lock()
	m, err := a.ws.History().Execute(fn)
	if err == nil && m != nil {
		a.chainSeries(action, m)
	}
	a.mu.Unlock()
	a.report(fn, m, err)
}

// chainSeries tags m with the running series when action repeats the
// previous one, so undo-series takes the whole run back at once. Callers
// hold mu.
func (a *App) chainSeries(action input.Action, m history.Memento) {
	if action == input.ActionUnknown {
		a.endSeries()
		return
	}
	if action != a.seriesAction {
		a.series, a.seriesAction = history.NewSeriesID(), action
	}
	history.SetSeries(m, a.series)
}

// endSeries stops the next action from joining the current run.
func (a *App) endSeries() {
	a.series, a.seriesAction = uuid.Nil, input.ActionUnknown
}

// start runs fn on its own goroutine. The workspace stays locked until it
// finishes; Esc cancels it.
func (a *App) start(fn *history.Function) {
	ctx, cancel := context.WithCancel(context.Background())
	name := fn.Name()
	fn.OnProgress(func(percent float64) {
		a.eventManager.Dispatch(event.TypeFunctionProgress, event.FunctionProgressData{Name: name, Percent: percent})
	})

	a.runMu.Lock()
	a.running, a.cancel = fn, cancel
	a.runMu.Unlock()
	a.statusBar.SetProgress(name, 0)

	a.mu.Lock()
	done := fn.Start(ctx, a.ws)
	go a.finish(done)
}

// finish records the outcome of a background function and releases the
// workspace lock taken by start.
func (a *App) finish(done <-chan history.Result) {
	res := <-done
	if res.Err == nil {
		a.ws.History().PushNewMemento(res.Memento)
		a.endSeries()
	}
	a.statusBar.ClearProgress()
	a.runMu.Lock()
	cancel := a.cancel
	a.running, a.cancel = nil, nil
	a.runMu.Unlock()
	a.mu.Unlock()
	cancel()

	a.report(res.Function, res.Memento, res.Err)
	a.requestRedraw()
}

// Running returns the background function, or nil.
func (a *App) Running() *history.Function {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.running
}

// Wait blocks until no background function holds the workspace.
func (a *App) Wait() {
	a.mu.Lock()
	defer a.mu.Unlock()
}

func (a *App) cancelRunning(fn *history.Function) {
	if err := fn.RequestCancel(); err != nil {
		logger.Warnf("App: cannot cancel %q: %v", fn.Name(), err)
		return
	}
	a.statusBar.SetTemporaryMessage("Cancelling %s...", fn.Name())
}

// report shows the outcome of a function on the status line.
func (a *App) report(fn *history.Function, m history.Memento, err error) {
	var nonFatal *history.NonFatalError
	switch {
	case errors.As(err, &nonFatal):
		logger.Warnf("App: %q failed: %v", fn.Name(), err)
		a.statusBar.SetTemporaryMessage("%s: %v", fn.Name(), nonFatal.Err)
	case err != nil:
		logger.Errorf("App: %q failed: %v", fn.Name(), err)
		a.statusBar.SetTemporaryMessage("%s failed: %v", fn.Name(), err)
	case fn.State() == history.Cancelled:
		a.statusBar.SetTemporaryMessage("%s cancelled", fn.Name())
	case m == nil:
		a.statusBar.SetTemporaryMessage("%s: nothing to do", fn.Name())
	}
}

// step moves through the history.
func (a *App) step(action input.Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.endSeries()
	stack := a.ws.History()

	var (
		n   int
		err error
	)
	switch action {
	case input.ActionUndo:
		err = stack.StepBackward()
	case input.ActionRedo:
		err = stack.StepForward()
	case input.ActionUndoSeries:
		n, err = stack.StepBackwardSeries()
		if err == nil && n > 1 {
			a.statusBar.SetTemporaryMessage("Undid %d steps", n)
		}
	case input.ActionRewind:
		n, err = stack.Rewind()
		a.statusBar.SetTemporaryMessage("Rewound %d step(s)", n)
	case input.ActionFastForward:
		n, err = stack.FastForward()
		a.statusBar.SetTemporaryMessage("Replayed %d step(s)", n)
	case input.ActionClearRedo:
		stack.ClearRedo()
		a.statusBar.SetTemporaryMessage("Redo list cleared")
	}

	switch {
	case errors.Is(err, history.ErrNothingToUndo):
		a.statusBar.SetTemporaryMessage("Nothing to undo")
	case errors.Is(err, history.ErrNothingToRedo):
		a.statusBar.SetTemporaryMessage("Nothing to redo")
	case err != nil:
		a.statusBar.SetTemporaryMessage("History error: %v", err)
	}
}

// selectLayer moves the active layer one step; layers are listed bottom
// first, so "previous" goes up the stack.
func (a *App) selectLayer(up bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.ws.Document().Layers().Len()
	i := a.ws.ActiveLayerIndex()
	if up {
		i++
	} else {
		i--
	}
	if i < 0 || i >= n {
		return
	}
	a.ws.SetActiveLayerIndex(i)
	a.updateStatusBarLocked()
}

// yankHistory copies the history list to the clipboard.
func (a *App) yankHistory() {
	a.mu.Lock()
	text := tui.HistoryText(a.ws.History().UndoEntries(), a.ws.History().RedoEntries())
	a.mu.Unlock()

	if a.clipboard.Copy(text) {
		a.statusBar.SetTemporaryMessage("History copied to clipboard")
	} else {
		a.statusBar.SetTemporaryMessage("History copied (internal clipboard)")
	}
}
