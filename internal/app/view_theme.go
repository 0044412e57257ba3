package app

import (
	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/bethropolis/easel/internal/tui"
)

// applyTheme restyles the status bar, history panel and canvas.
func (a *App) applyTheme(t *theme.Theme) {
	a.statusBar.SetConfig(statusbar.Config{
		StyleDefault:   t.GetStyle(theme.StyleStatusBar),
		StyleModified:  t.GetStyle(theme.StyleStatusBarModified),
		StyleMessage:   t.GetStyle(theme.StyleStatusBarMessage),
		StyleProgress:  t.GetStyle(theme.StyleStatusBarProgress),
		StylePrompt:    t.GetStyle(theme.StyleStatusBarPrompt),
		MessageTimeout: config.MessageTimeout,
	})

	canvas := tui.DefaultCanvas()
	canvas.Checker[0] = t.GetColor(theme.ColorCheckerLight, canvas.Checker[0])
	canvas.Checker[1] = t.GetColor(theme.ColorCheckerDark, canvas.Checker[1])
	canvas.SelectionTint = t.GetColor(theme.ColorSelectionTint, canvas.SelectionTint)
	canvas.Background = t.GetStyle(theme.StyleDefault)

	panel := tui.HistoryPanel{
		StyleTitle:   t.GetStyle(theme.StyleHistoryTitle),
		StyleBorder:  t.GetStyle(theme.StyleHistoryBorder),
		StyleUndo:    t.GetStyle("History"),
		StyleCurrent: t.GetStyle(theme.StyleHistoryCurrent),
		StyleRedo:    t.GetStyle(theme.StyleHistoryRedo),
	}

	a.viewMu.Lock()
	a.canvas, a.historyPanel = canvas, panel
	a.viewMu.Unlock()
}

// viewStyles returns the current canvas and history panel settings.
func (a *App) viewStyles() (tui.Canvas, tui.HistoryPanel) {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()
	return a.canvas, a.historyPanel
}
