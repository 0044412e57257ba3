package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"
enabled_tags = ["history"]

[history]
max_depth = 10
spill_threshold = 0
temp_dir = "/var/tmp"

[view]
show_history = false
history_width = 40
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"history"}, cfg.Logger.EnabledTags)
	assert.Equal(t, HistoryConfig{MaxDepth: 10, SpillThreshold: 0, TempDir: "/var/tmp"}, cfg.History)
	assert.False(t, cfg.View.ShowHistory)
	assert.Equal(t, 40, cfg.View.HistoryWidth)
	assert.Equal(t, SystemClipboard, cfg.View.SystemClipboard)
	assert.Equal(t, DefaultDocumentWidth, cfg.Document.Width)
}

func TestValidateResetsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "loud"

[history]
max_depth = -3

[view]
history_width = 2

[document]
width = 0
height = -1
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	def := NewDefaultConfig()
	assert.Equal(t, def.Logger.LogLevel, cfg.Logger.LogLevel)
	assert.Equal(t, def.History.MaxDepth, cfg.History.MaxDepth)
	assert.Equal(t, def.View.HistoryWidth, cfg.View.HistoryWidth)
	assert.Equal(t, def.Document, cfg.Document)
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := writeConfig(t, "[history\nmax_depth = ")
	cfg, err := Load(path, nil)
	assert.Error(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, "[history]\nmax_depth = 10\n")
	var flags Flags
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	rest, err := flags.ParseFlags(fs, []string{
		"-loglevel", "warn",
		"-history-depth", "7",
		"-spill-threshold", "-1",
		"-log-tags", "history, snapshot,",
		"-no-history",
		"-width", "20",
		"-theme", "Easel Light",
		"image.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"image.png"}, rest)

	cfg, err := Load(path, &flags)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
	assert.Equal(t, 7, cfg.History.MaxDepth)
	assert.Equal(t, int64(-1), cfg.History.SpillThreshold)
	assert.Equal(t, []string{"history", "snapshot"}, cfg.Logger.EnabledTags)
	assert.False(t, cfg.View.ShowHistory)
	assert.Equal(t, 20, cfg.Document.Width)
	assert.Equal(t, DefaultDocumentHeight, cfg.Document.Height)
	assert.Equal(t, "Easel Light", cfg.View.Theme)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "[history]\nspill_threshold = 4096\n")
	var flags Flags
	_, err := flags.ParseFlags(flag.NewFlagSet(AppName, flag.ContinueOnError), nil)
	require.NoError(t, err)

	cfg, err := Load(path, &flags)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.History.SpillThreshold)
}

func TestThemeSettings(t *testing.T) {
	path := writeConfig(t, "[view]\ntheme = \"  \"\nthemes_dir = \"/srv/themes\"\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultThemeName, cfg.View.Theme)
	assert.Equal(t, "/srv/themes", cfg.ThemesDir())

	cfg.View.ThemesDir = ""
	if dir := cfg.ThemesDir(); dir != "" {
		assert.Equal(t, ThemesDirName, filepath.Base(dir))
	}
}
