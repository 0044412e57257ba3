package tui

import (
	"image"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/easel/internal/core/history"
)

// OriginName labels the state before any recorded change.
const OriginName = "Original"

var glyphs = map[string]string{
	"layer-add":    "+",
	"layer-delete": "-",
	"image-new":    "*",
}

var glyphPrefixes = []struct{ prefix, glyph string }{
	{"layer-", "▤"},
	{"edit-", "▨"},
	{"image-", "▣"},
}

// Glyph returns the one-cell icon shown for a history image name.
func Glyph(image string) string {
	if g, ok := glyphs[image]; ok {
		return g
	}
	for _, p := range glyphPrefixes {
		if strings.HasPrefix(image, p.prefix) {
			return p.glyph
		}
	}
	return "•"
}

// HistoryLine is one row of the history list.
type HistoryLine struct {
	Text string
	Redo bool // The entry is in the redo list
}

// HistoryLines lists the origin, the undo entries oldest first and the
// redo entries next-to-redo first. current is the row of the state the
// document is in.
func HistoryLines(undo, redo []history.Info) (lines []HistoryLine, current int) {
	lines = make([]HistoryLine, 0, 1+len(undo)+len(redo))
	lines = append(lines, HistoryLine{Text: "  " + OriginName})
	for _, info := range undo {
		lines = append(lines, HistoryLine{Text: Glyph(info.Image) + " " + info.Name})
	}
	for _, info := range redo {
		lines = append(lines, HistoryLine{Text: Glyph(info.Image) + " " + info.Name, Redo: true})
	}
	return lines, len(undo)
}

// HistoryPanel draws the history list with a border on its left edge.
type HistoryPanel struct {
	StyleTitle   tcell.Style
	StyleBorder  tcell.Style
	StyleUndo    tcell.Style
	StyleCurrent tcell.Style
	StyleRedo    tcell.Style
}

// DefaultHistoryPanel returns the default panel styles.
func DefaultHistoryPanel() HistoryPanel {
	return HistoryPanel{
		StyleTitle:   tcell.StyleDefault.Bold(true),
		StyleBorder:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		StyleUndo:    tcell.StyleDefault,
		StyleCurrent: tcell.StyleDefault.Reverse(true),
		StyleRedo:    tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true),
	}
}

// firstVisible scrolls so the current row sits mid-panel when possible.
func firstVisible(total, current, rows int) int {
	if total <= rows {
		return 0
	}
	first := current - rows/2
	return max(0, min(first, total-rows))
}

// Draw renders the panel into area.
func (p HistoryPanel) Draw(screen tcell.Screen, area image.Rectangle, undo, redo []history.Info) {
	if area.Dx() < 2 || area.Dy() < 1 {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		screen.SetContent(area.Min.X, y, '│', nil, p.StyleBorder)
	}
	x, width := area.Min.X+1, area.Dx()-1
	DrawText(screen, x, area.Min.Y, width, Truncate("History", width), p.StyleTitle)

	lines, current := HistoryLines(undo, redo)
	rows := area.Dy() - 1
	first := firstVisible(len(lines), current, rows)
	for i := 0; i < rows && first+i < len(lines); i++ {
		line := lines[first+i]
		style := p.StyleUndo
		switch {
		case first+i == current:
			style = p.StyleCurrent
		case line.Redo:
			style = p.StyleRedo
		}
		y := area.Min.Y + 1 + i
		Fill(screen, x, y, width, ' ', style)
		DrawText(screen, x, y, width, Truncate(line.Text, width), style)
	}
}

// HistoryText renders the history list as plain text, one entry per line,
// with the current state marked by '>'.
func HistoryText(undo, redo []history.Info) string {
	lines, current := HistoryLines(undo, redo)
	var b strings.Builder
	for i, line := range lines {
		switch {
		case i == current:
			b.WriteString("> ")
		case line.Redo:
			b.WriteString("  (redo) ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(strings.TrimLeft(line.Text, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
