package tui

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/easel/internal/core/history"
)

func infos(pairs ...string) []history.Info {
	var out []history.Info
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, history.Info{Name: pairs[i], Image: pairs[i+1]})
	}
	return out
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "+", Glyph("layer-add"))
	assert.Equal(t, "▤", Glyph("layer-move"))
	assert.Equal(t, "▨", Glyph("edit-fill"))
	assert.Equal(t, "▣", Glyph("image-rotate"))
	assert.Equal(t, "•", Glyph(""))
}

func TestHistoryLines(t *testing.T) {
	lines, current := HistoryLines(
		infos("Add New Layer", "layer-add", "Fill Selection", "edit-fill"),
		infos("Flip Image", "image-flip"))

	assert.Equal(t, 2, current)
	assert.Equal(t, []HistoryLine{
		{Text: "  Original"},
		{Text: "+ Add New Layer"},
		{Text: "▨ Fill Selection"},
		{Text: "▣ Flip Image", Redo: true},
	}, lines)
}

func TestFirstVisible(t *testing.T) {
	assert.Equal(t, 0, firstVisible(3, 2, 5))
	assert.Equal(t, 1, firstVisible(4, 2, 3))
	assert.Equal(t, 0, firstVisible(10, 1, 4))
	assert.Equal(t, 6, firstVisible(10, 9, 4))
}

func TestHistoryPanelDraw(t *testing.T) {
	s := newScreen(t, 12, 4)
	undo := infos("A", "layer-move", "B", "layer-move")
	redo := infos("C", "layer-move")

	DefaultHistoryPanel().Draw(s, image.Rect(0, 0, 12, 4), undo, redo)
	s.Show()

	assert.Equal(t, "│History", screenText(s, 0, 0))
	assert.Equal(t, "▤ A", screenText(s, 1, 1))
	assert.Equal(t, "▤ B", screenText(s, 1, 2))
	assert.Equal(t, "▤ C", screenText(s, 1, 3))
}

func TestHistoryText(t *testing.T) {
	text := HistoryText(infos("Fill Selection", "edit-fill"), infos("Crop to Selection", "image-crop"))
	assert.Equal(t, "  Original\n> ▨ Fill Selection\n  (redo) ▣ Crop to Selection\n", text)
}
