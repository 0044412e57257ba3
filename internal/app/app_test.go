package app

import (
	"image"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/core/functions"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/theme"
)

func newTestApp(t *testing.T, w, h int) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.History.TempDir = t.TempDir()
	cfg.History.SpillThreshold = 0
	cfg.View.SystemClipboard = false
	cfg.View.ThemesDir = t.TempDir()
	cfg.Document.Width, cfg.Document.Height = w, h

	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := NewApp(cfg, screen)
	require.NoError(t, err)
	screen.SetSize(80, 20)
	t.Cleanup(func() {
		assert.NoError(t, a.Close())
		a.tuiManager.Close()
	})
	return a
}

// typeLine types a ':' command and presses Enter.
func typeLine(a *App, line string) {
	for _, r := range ":" + line {
		a.modeHandler.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	a.modeHandler.HandleKeyEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
}

func do(a *App, actions ...input.Action) {
	for _, action := range actions {
		a.HandleAction(input.ActionEvent{Action: action})
	}
}

func TestUndoRedoThroughActions(t *testing.T) {
	a := newTestApp(t, 8, 8)

	do(a, input.ActionAddLayer)
	assert.Equal(t, 2, a.ws.Document().Layers().Len())
	assert.Equal(t, 1, a.ws.ActiveLayerIndex())

	do(a, input.ActionUndo)
	assert.Equal(t, 1, a.ws.Document().Layers().Len())
	assert.Equal(t, "Undo: Add New Layer", a.statusBar.Text())

	do(a, input.ActionRedo)
	assert.Equal(t, 2, a.ws.Document().Layers().Len())
	assert.Equal(t, "Redo: Add New Layer", a.statusBar.Text())

	do(a, input.ActionRedo)
	assert.Equal(t, "Nothing to redo", a.statusBar.Text())
}

func TestFillCenterAndRewind(t *testing.T) {
	a := newTestApp(t, 8, 8)
	before := a.ws.Document().Layers().At(0).Surface().Clone()

	do(a, input.ActionSelectCenter, input.ActionFillSelection)
	assert.True(t, a.ws.Selection().Region().Contains(2, 2))
	assert.False(t, a.ws.Selection().Region().Contains(1, 1))
	bg := a.ws.Document().Layers().At(0).Surface()
	assert.NotEqual(t, surface.White, bg.At(3, 3))
	assert.Equal(t, surface.White, bg.At(0, 0))

	do(a, input.ActionRewind)
	assert.Equal(t, "Rewound 2 step(s)", a.statusBar.Text())
	assert.True(t, a.ws.Document().Layers().At(0).Surface().Equal(before))
	assert.True(t, a.ws.Selection().IsEmpty())
	assert.Equal(t, 2, a.ws.History().RedoCount())
}

func TestRepeatedFillsUndoAsOneSeries(t *testing.T) {
	a := newTestApp(t, 8, 8)

	do(a, input.ActionSelectCenter,
		input.ActionFillSelection, input.ActionFillSelection, input.ActionFillSelection)
	require.Equal(t, 4, a.ws.History().UndoCount())
	entries := a.ws.History().UndoEntries()
	assert.NotEqual(t, entries[0].SeriesID, entries[1].SeriesID)
	assert.NotEqual(t, uuid.Nil, entries[1].SeriesID)
	assert.Equal(t, entries[1].SeriesID, entries[3].SeriesID)

	do(a, input.ActionUndoSeries)
	assert.Equal(t, "Undid 3 steps", a.statusBar.Text())
	assert.Equal(t, 1, a.ws.History().UndoCount())
	assert.False(t, a.ws.Selection().IsEmpty())
	assert.Equal(t, surface.White, a.ws.Document().Layers().At(0).Surface().At(3, 3))
}

func TestHistoryStepEndsSeries(t *testing.T) {
	a := newTestApp(t, 8, 8)

	do(a, input.ActionSelectCenter, input.ActionFillSelection, input.ActionUndo, input.ActionFillSelection)
	do(a, input.ActionUndoSeries)
	assert.Equal(t, 1, a.ws.History().UndoCount())
	assert.Equal(t, 1, a.ws.History().RedoCount())

	do(a, input.ActionRedo, input.ActionFillSelection)
	entries := a.ws.History().UndoEntries()
	require.Len(t, entries, 3)
	assert.NotEqual(t, entries[1].SeriesID, entries[2].SeriesID)
}

func TestFillColorsDiffer(t *testing.T) {
	a := newTestApp(t, 4, 4)
	first, second := a.nextFillColor(), a.nextFillColor()
	assert.NotEqual(t, first, second)
	assert.Equal(t, uint8(255), first.A)
}

func TestBackgroundRotate(t *testing.T) {
	a := newTestApp(t, 8, 4)

	do(a, input.ActionRotateClockwise)
	a.Wait()

	assert.Equal(t, image.Pt(4, 8), a.ws.Document().Size())
	assert.Equal(t, 1, a.ws.History().UndoCount())

	do(a, input.ActionUndo)
	assert.Equal(t, image.Pt(8, 4), a.ws.Document().Size())
}

func TestDeleteLastLayerReportsError(t *testing.T) {
	a := newTestApp(t, 4, 4)

	do(a, input.ActionDeleteLayer)
	assert.Equal(t, 1, a.ws.Document().Layers().Len())
	assert.Equal(t, 0, a.ws.History().UndoCount())
	assert.Contains(t, a.statusBar.Text(), "Delete Layer")
}

func TestSelectLayer(t *testing.T) {
	a := newTestApp(t, 4, 4)
	do(a, input.ActionAddLayer, input.ActionAddLayer)
	require.Equal(t, 2, a.ws.ActiveLayerIndex())

	do(a, input.ActionNextLayer, input.ActionNextLayer, input.ActionNextLayer)
	assert.Equal(t, 0, a.ws.ActiveLayerIndex())
	do(a, input.ActionPreviousLayer)
	assert.Equal(t, 1, a.ws.ActiveLayerIndex())
}

func TestYankHistory(t *testing.T) {
	a := newTestApp(t, 4, 4)
	do(a, input.ActionAddLayer, input.ActionYankHistory)

	assert.Equal(t, "  Original\n> + Add New Layer\n", a.clipboard.Text())
	assert.Equal(t, "History copied (internal clipboard)", a.statusBar.Text())
}

func TestLayout(t *testing.T) {
	a := newTestApp(t, 4, 4)

	canvas, panel := a.layout(100, 30)
	assert.Equal(t, image.Rect(0, 0, 100-config.DefaultHistoryWidth, 30), canvas)
	assert.Equal(t, image.Rect(100-config.DefaultHistoryWidth, 0, 100, 30), panel)

	do(a, input.ActionToggleHistoryPanel)
	canvas, panel = a.layout(100, 30)
	assert.Equal(t, image.Rect(0, 0, 100, 30), canvas)
	assert.True(t, panel.Empty())
}

func TestDrawShowsStatusAndHistory(t *testing.T) {
	a := newTestApp(t, 8, 8)
	do(a, input.ActionAddLayer)
	a.statusBar.ResetTemporaryMessage()

	a.draw()

	screen := a.tuiManager.GetScreen().(tcell.SimulationScreen)
	cells, w, h := screen.GetContents()
	row := func(y int) string {
		var b strings.Builder
		for x := 0; x < w; x++ {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				b.WriteRune(r[0])
			}
		}
		return b.String()
	}
	assert.Contains(t, row(h-1), "8x8")
	assert.Contains(t, row(h-1), "Undo: 1, Redo: 0")
	assert.Contains(t, row(2), "Add New Layer")
}

func TestCloseIsIdempotent(t *testing.T) {
	a := newTestApp(t, 4, 4)
	require.NoError(t, a.Close())
	assert.Nil(t, a.ws)
	assert.NoError(t, a.Close())
}

func TestCommandLine(t *testing.T) {
	a := newTestApp(t, 8, 4)

	typeLine(a, "resize 16 6 nearest")
	a.Wait()
	assert.Equal(t, image.Pt(16, 6), a.ws.Document().Size())

	typeLine(a, "rename Paper")
	assert.Equal(t, "Paper", a.ws.ActiveLayer().Name())

	typeLine(a, "undo 5")
	assert.Equal(t, "Undid 2 step(s)", a.statusBar.Text())
	assert.Equal(t, image.Pt(8, 4), a.ws.Document().Size())
	assert.Equal(t, "Background", a.ws.ActiveLayer().Name())

	typeLine(a, "bogus")
	assert.Equal(t, "Unknown command: bogus", a.statusBar.Text())
}

func TestKeysTypedInCommandModeAreNotActions(t *testing.T) {
	a := newTestApp(t, 4, 4)
	typeLine(a, "a")
	assert.Equal(t, 1, a.ws.Document().Layers().Len(), "'a' adds a layer only in normal mode")
	assert.Equal(t, "Unknown command: a", a.statusBar.Text())
}

func TestCommandsRefusedWhileBusy(t *testing.T) {
	a := newTestApp(t, 4, 4)
	a.runMu.Lock()
	a.running = functions.Flatten()
	a.runMu.Unlock()

	err := a.Execute(functions.AddNewLayer())
	assert.EqualError(t, err, "Flatten is running")
	_, err = a.Undo(1)
	assert.Error(t, err)

	a.runMu.Lock()
	a.running = nil
	a.runMu.Unlock()
}

func TestThemeCommand(t *testing.T) {
	a := newTestApp(t, 4, 4)
	assert.Equal(t, theme.DefaultThemeName, a.CurrentTheme())

	typeLine(a, "theme easel light")
	assert.Equal(t, "Easel Light", a.CurrentTheme())
	assert.Equal(t, "Theme set to: Easel Light", a.statusBar.Text())

	canvas, panel := a.viewStyles()
	light, _ := a.themeManager.GetTheme("Easel Light")
	assert.Equal(t, light.Colors[theme.ColorCheckerLight], canvas.Checker[0])
	assert.Equal(t, light.GetStyle(theme.StyleHistoryTitle), panel.StyleTitle)

	typeLine(a, "theme neon")
	assert.Contains(t, a.statusBar.Text(), "not found")
	assert.Equal(t, "Easel Light", a.CurrentTheme())
}
