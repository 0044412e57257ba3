package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenLine(t *testing.T, s tcell.SimulationScreen, y int) string {
	t.Helper()
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			b.WriteRune(r[0])
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestDefaultText(t *testing.T) {
	sb := New(DefaultConfig())
	sb.SetDocumentInfo(DocumentInfo{Width: 64, Height: 32, Layers: 3, ActiveIndex: 1, ActiveName: "Ink", Modified: true})
	sb.SetHistoryInfo(4, 2)

	assert.Equal(t, "64x32 [Modified] -- Layer 2:Ink of 3 -- Undo: 4, Redo: 2", sb.Text())

	sb.SetDocumentInfo(DocumentInfo{Width: 1, Height: 1, ActiveIndex: -1})
	assert.Equal(t, "1x1 -- Layer - of 0 -- Undo: 4, Redo: 2", sb.Text())
}

func TestTemporaryMessageExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MessageTimeout = 20 * time.Millisecond
	sb := New(cfg)

	sb.SetTemporaryMessage("Undid %s", "Fill Selection")
	assert.Equal(t, "Undid Fill Selection", sb.Text())

	left, ok := sb.MessageRemaining()
	assert.True(t, ok)
	assert.LessOrEqual(t, left, cfg.MessageTimeout)

	time.Sleep(40 * time.Millisecond)
	_, ok = sb.MessageRemaining()
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(sb.Text(), "0x0"))

	sb.SetTemporaryMessage("again")
	sb.ResetTemporaryMessage()
	assert.True(t, strings.HasPrefix(sb.Text(), "0x0"))
}

func TestProgressWinsOverMessage(t *testing.T) {
	sb := New(DefaultConfig())
	sb.SetTemporaryMessage("hello")
	sb.SetProgress("Rotate", 50)
	assert.Equal(t, "Rotate...  50% (Esc to cancel)", sb.Text())

	sb.ClearProgress()
	assert.Equal(t, "hello", sb.Text())
}

func TestDrawTruncates(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(10, 3)
	s.Clear()

	sb := New(DefaultConfig())
	sb.SetTemporaryMessage("a long message that does not fit")
	sb.Draw(s, 10, 3)
	s.Show()

	assert.Equal(t, "a long mes", screenLine(t, s, 2))
	assert.Empty(t, screenLine(t, s, 0))
}

func TestPromptWinsOverEverything(t *testing.T) {
	sb := New(DefaultConfig())
	sb.SetProgress("Rotate", 10)
	sb.SetPrompt(":resize 4")
	assert.Equal(t, ":resize 4", sb.Text())

	sb.ClearPrompt()
	assert.Equal(t, "Rotate...  10% (Esc to cancel)", sb.Text())
}

func TestSetConfigChangesStyle(t *testing.T) {
	sb := New(DefaultConfig())
	cfg := DefaultConfig()
	cfg.StyleDefault = tcell.StyleDefault.Foreground(tcell.ColorRed)
	sb.SetConfig(cfg)

	_, style := sb.current()
	assert.Equal(t, cfg.StyleDefault, style)
}
