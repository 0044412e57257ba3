package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Truncate shortens text to at most width terminal cells, ending it with
// an ellipsis when something was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(text) <= width {
		return text
	}
	limit := width - uniseg.StringWidth(ellipsis)
	gr := uniseg.NewGraphemes(text)
	used, end := 0, 0
	for gr.Next() {
		w := gr.Width()
		if used+w > limit {
			break
		}
		used += w
		_, end = gr.Positions()
	}
	return text[:end] + ellipsis
}

// DrawText writes text at (x, y) in at most width cells and returns the
// number of cells used.
func DrawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	used := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if used+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(x+used, y, runes[0], combining, style)
		}
		used += clusterWidth
	}
	return used
}

// Fill paints width cells starting at (x, y) with r.
func Fill(screen tcell.Screen, x, y, width int, r rune, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
