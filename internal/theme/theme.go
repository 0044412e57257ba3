// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bethropolis/easel/internal/logger" // For logging missing styles
)

// Style names used by the front end.
const (
	StyleDefault           = "Default"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarProgress = "StatusBarProgress"
	StyleStatusBarPrompt   = "StatusBarPrompt"
	StyleHistoryTitle      = "History.Title"
	StyleHistoryBorder     = "History.Border"
	StyleHistoryCurrent    = "History.Current"
	StyleHistoryRedo       = "History.Redo"
)

// Color names for canvas rendering.
const (
	ColorCheckerLight  = "checker_light"
	ColorCheckerDark   = "checker_dark"
	ColorSelectionTint = "selection_tint"
)

// Theme is a named set of terminal styles and canvas colors.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
	Colors map[string]colorful.Color
}

// GetStyle returns the named style, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	// 1. Try exact name
	if style, ok := t.Styles[name]; ok {
		return style
	}

	// 2. Try base name (part before first dot)
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, name[:dotIndex])
			return style
		}
	}

	// 3. Return "Default" style
	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	// 4. Absolute fallback
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// GetColor returns the named canvas color, or fallback when unset.
func (t *Theme) GetColor(name string, fallback colorful.Color) colorful.Color {
	if c, ok := t.Colors[name]; ok {
		return c
	}
	return fallback
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("theme: bad built-in color " + s)
	}
	return c
}

func tc(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// EaselDark is the default theme.
func EaselDark() *Theme {
	bg := hex("#2a2f38")
	fg := hex("#c5cdd9")
	muted := hex("#5c6370")
	yellow := hex("#e5c07b")
	green := hex("#98c379")
	blue := hex("#61afef")

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tc(fg))
	bar := tcell.StyleDefault.Background(tc(bg)).Foreground(tc(fg))

	return &Theme{
		Name:   "Easel Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleStatusBar:         bar,
			StyleStatusBarModified: bar.Foreground(tc(yellow)),
			StyleStatusBarMessage:  bar.Bold(true),
			StyleStatusBarProgress: tcell.StyleDefault.Background(tc(green)).Foreground(tc(bg)),
			StyleStatusBarPrompt:   bar.Foreground(tc(green)).Bold(true),
			"History":              base,
			StyleHistoryTitle:      base.Foreground(tc(blue)).Bold(true),
			StyleHistoryBorder:     base.Foreground(tc(muted)),
			StyleHistoryCurrent:    base.Reverse(true),
			StyleHistoryRedo:       base.Foreground(tc(muted)),
		},
		Colors: map[string]colorful.Color{
			ColorCheckerLight:  hex("#4b515c"),
			ColorCheckerDark:   hex("#3a3f48"),
			ColorSelectionTint: blue,
		},
	}
}

// EaselLight is a light variant for bright terminals.
func EaselLight() *Theme {
	bg := hex("#dfe3ea")
	fg := hex("#2a2f38")
	muted := hex("#9aa1ad")
	orange := hex("#b3661b")
	green := hex("#4f8a2f")
	blue := hex("#2f6db3")

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tc(fg))
	bar := tcell.StyleDefault.Background(tc(bg)).Foreground(tc(fg))

	return &Theme{
		Name: "Easel Light",
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleStatusBar:         bar,
			StyleStatusBarModified: bar.Foreground(tc(orange)),
			StyleStatusBarMessage:  bar.Bold(true),
			StyleStatusBarProgress: tcell.StyleDefault.Background(tc(green)).Foreground(tcell.ColorWhite),
			StyleStatusBarPrompt:   bar.Foreground(tc(blue)).Bold(true),
			"History":              base,
			StyleHistoryTitle:      base.Foreground(tc(blue)).Bold(true),
			StyleHistoryBorder:     base.Foreground(tc(muted)),
			StyleHistoryCurrent:    base.Reverse(true),
			StyleHistoryRedo:       base.Foreground(tc(muted)),
		},
		Colors: map[string]colorful.Color{
			ColorCheckerLight:  hex("#ffffff"),
			ColorCheckerDark:   hex("#d0d0d0"),
			ColorSelectionTint: blue,
		},
	}
}
