package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStyleFallbacks(t *testing.T) {
	def := tcell.StyleDefault.Foreground(tcell.ColorRed)
	hist := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	th := &Theme{Name: "t", Styles: map[string]tcell.Style{
		StyleDefault: def,
		"History":    hist,
	}}

	assert.Equal(t, hist, th.GetStyle(StyleHistoryRedo))
	assert.Equal(t, def, th.GetStyle(StyleStatusBar))
	assert.Equal(t, tcell.StyleDefault, (&Theme{}).GetStyle(StyleStatusBar))
}

func TestGetColor(t *testing.T) {
	th := EaselLight()
	white := colorful.Color{R: 1, G: 1, B: 1}
	assert.Equal(t, white, th.GetColor(ColorCheckerLight, colorful.Color{}))
	assert.Equal(t, white, th.GetColor("missing", white))
}

func TestParseColorString(t *testing.T) {
	c, err := parseColorString("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), c)

	c, err = parseColorString(" Reset ")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorReset, c)

	c, err = parseColorString("yellow")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorYellow, c)

	_, err = parseColorString("#12")
	assert.Error(t, err)
	_, err = parseColorString("not-a-color")
	assert.Error(t, err)
}

const solarized = `
name = "Solar"
is_dark = true

[styles.Default]
fg = "#839496"

[styles.StatusBar]
bg = "#073642"
bold = true

[styles.History]
fg = "bogus"

[colors]
checker_light = "#fdf6e3"
checker_dark = "nope"
`

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solar.toml")
	require.NoError(t, os.WriteFile(path, []byte(solarized), 0o644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Solar", th.Name)
	assert.True(t, th.IsDark)

	fg, _, _ := th.GetStyle(StyleDefault).Decompose()
	assert.Equal(t, tcell.NewRGBColor(0x83, 0x94, 0x96), fg)

	fg, bg, attrs := th.GetStyle(StyleStatusBar).Decompose()
	assert.Equal(t, tcell.NewRGBColor(0x83, 0x94, 0x96), fg, "inherits Default")
	assert.Equal(t, tcell.NewRGBColor(0x07, 0x36, 0x42), bg)
	assert.NotZero(t, attrs&tcell.AttrBold)

	_, ok := th.Styles["History"]
	assert.False(t, ok, "bad style skipped")
	assert.Contains(t, th.Colors, ColorCheckerLight)
	assert.NotContains(t, th.Colors, ColorCheckerDark)
}

func TestLoadThemeNameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.toml")
	require.NoError(t, os.WriteFile(path, []byte("[styles.Default]\nfg = \"red\"\n"), 0o644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", th.Name)
}

func TestManager(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solar.toml"), []byte(solarized), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("name = "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Easel Dark", "Easel Light", "Solar"}, m.ListThemes())
	assert.Equal(t, DefaultThemeName, m.Current().Name)

	require.NoError(t, m.SetTheme("solar"))
	assert.Equal(t, "Solar", m.Current().Name)
	assert.Error(t, m.SetTheme("Missing"))
	assert.Equal(t, "Solar", m.Current().Name)

	_, ok := m.GetTheme("EASEL LIGHT")
	assert.True(t, ok)
}

func TestManagerMissingDir(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Len(t, m.ListThemes(), 2)

	m, err = NewManager("")
	require.NoError(t, err)
	assert.Equal(t, DefaultThemeName, m.Current().Name)
}
