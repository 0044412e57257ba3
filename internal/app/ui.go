package app

import (
	"image"
	"time"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/statusbar"
)

const messageExpirySlack = 10 * time.Millisecond

// draw clears the screen and redraws all components. While a background
// function holds the workspace only the status bar is refreshed; finish
// requests a full redraw afterwards.
func (a *App) draw() {
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	statusBarHeight := a.cfg.View.StatusBarHeight

	if a.Running() != nil {
		if !a.mu.TryLock() {
			a.drawStatusBar(width, height)
			a.tuiManager.Show()
			return
		}
	} else {
		a.mu.Lock()
	}
	defer a.mu.Unlock()
	if a.ws == nil {
		return
	}

	a.updateStatusBarLocked()
	canvasArea, panelArea := a.layout(width, height-statusBarHeight)
	logger.DebugTagf("draw", "draw: screen %dx%d, canvas %v, panel %v", width, height, canvasArea, panelArea)

	canvas, historyPanel := a.viewStyles()
	a.tuiManager.Clear()
	doc := a.ws.Document()
	sel := region.Empty()
	if !a.ws.Selection().IsEmpty() {
		sel = a.ws.Selection().Region()
	}
	canvas.Draw(screen, canvasArea, doc.Render(), sel)
	if !panelArea.Empty() {
		stack := a.ws.History()
		historyPanel.Draw(screen, panelArea, stack.UndoEntries(), stack.RedoEntries())
	}
	a.drawStatusBar(width, height)
	a.tuiManager.Show()
}

// drawStatusBar draws the status line and schedules a redraw for when
// its temporary message expires.
func (a *App) drawStatusBar(width, height int) {
	a.statusBar.Draw(a.tuiManager.GetScreen(), width, height)
	if left, ok := a.statusBar.MessageRemaining(); ok {
		a.messageExpiry.Debounce(left+messageExpirySlack, a.requestRedraw)
	}
}

// layout splits the area above the status bar between the canvas and
// the history panel on its right.
func (a *App) layout(width, height int) (canvas, panel image.Rectangle) {
	if height <= 0 || width <= 0 {
		return image.Rectangle{}, image.Rectangle{}
	}
	panelWidth := 0
	if a.showHistory {
		panelWidth = min(a.cfg.View.HistoryWidth, width/2)
	}
	canvas = image.Rect(0, 0, width-panelWidth, height)
	if panelWidth > 0 {
		panel = image.Rect(width-panelWidth, 0, width, height)
	}
	return canvas, panel
}

// updateStatusBarContent pushes the current workspace state to the
// status bar.
func (a *App) updateStatusBarContent() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updateStatusBarLocked()
}

// updateStatusBarLocked is updateStatusBarContent for callers holding a.mu.
func (a *App) updateStatusBarLocked() {
	if a.ws == nil {
		return
	}
	doc := a.ws.Document()
	info := statusbar.DocumentInfo{
		Width:       doc.Width(),
		Height:      doc.Height(),
		Layers:      doc.Layers().Len(),
		ActiveIndex: a.ws.ActiveLayerIndex(),
		Modified:    a.ws.History().CanUndo(),
	}
	if l := a.ws.ActiveLayer(); l != nil {
		info.ActiveName = l.Name()
	}
	a.statusBar.SetDocumentInfo(info)
	stack := a.ws.History()
	a.statusBar.SetHistoryInfo(stack.UndoCount(), stack.RedoCount())
}
