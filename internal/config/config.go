// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/easel/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger   logger.Config  `toml:"logger"`   // Embed logger config under [logger] table
	History  HistoryConfig  `toml:"history"`  // Undo stack and snapshot storage
	View     ViewConfig     `toml:"view"`     // Terminal front end
	Document DocumentConfig `toml:"document"` // Defaults for new documents
}

// HistoryConfig controls the undo stack and where saved pixels live.
type HistoryConfig struct {
	MaxDepth int `toml:"max_depth"`
	// SpillThreshold is the snapshot size in bytes from which pixels go to
	// a scratch file. 0 always uses files, negative never does.
	SpillThreshold int64  `toml:"spill_threshold"`
	TempDir        string `toml:"temp_dir"` // Empty means the OS temp dir
}

// ViewConfig holds front-end settings.
type ViewConfig struct {
	ShowHistory     bool   `toml:"show_history"`
	HistoryWidth    int    `toml:"history_width"`
	SystemClipboard bool   `toml:"system_clipboard"`
	StatusBarHeight int    `toml:"status_bar_height"`
	Theme           string `toml:"theme"`
	ThemesDir       string `toml:"themes_dir"` // Empty means ThemesDir()
}

// DocumentConfig is the size of the document created at startup.
type DocumentConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: DefaultLogFileName, // Stderr would garble the screen
		},
		History: HistoryConfig{
			MaxDepth:       DefaultMaxDepth,
			SpillThreshold: DefaultSpillThreshold,
		},
		View: ViewConfig{
			ShowHistory:     DefaultShowHistory,
			HistoryWidth:    DefaultHistoryWidth,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			Theme:           DefaultThemeName,
		},
		Document: DocumentConfig{
			Width:  DefaultDocumentWidth,
			Height: DefaultDocumentHeight,
		},
	}
}

// loadFromFile decodes filePath over cfg. Keys missing from the file keep
// their current values. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config, verbose bool) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	if verbose {
		logger.Debugf("Attempting to load configuration from: %s", filePath)
	}
	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if verbose {
		logger.Infof("Successfully loaded configuration from: %s", filePath)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if _, ok := logger.ParseLevel(c.Logger.LogLevel); !ok {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if c.History.MaxDepth <= 0 {
		c.History.MaxDepth = defaults.History.MaxDepth
	}

	if c.View.HistoryWidth < MinHistoryWidth {
		c.View.HistoryWidth = defaults.View.HistoryWidth
	}
	if c.View.StatusBarHeight <= 0 {
		c.View.StatusBarHeight = defaults.View.StatusBarHeight
	}

	if strings.TrimSpace(c.View.Theme) == "" {
		c.View.Theme = defaults.View.Theme
	}

	if c.Document.Width <= 0 {
		c.Document.Width = defaults.Document.Width
	}
	if c.Document.Height <= 0 {
		c.Document.Height = defaults.Document.Height
	}
}

// DefaultPath returns the config file location under the user config dir,
// or "" when that dir is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// ThemesDir returns the directory scanned for custom themes: the configured
// one, or a themes dir next to the config file.
func (c *Config) ThemesDir() string {
	if c.View.ThemesDir != "" {
		return c.View.ThemesDir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, ThemesDirName)
}

// Load builds a configuration from defaults, the file at configFilePath
// (DefaultPath when empty), and flag overrides, then validates it. The
// config is usable even when an error is returned.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	// Called before the logger is set up, so stay quiet.
	verbose := false

	cfg := NewDefaultConfig()
	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(effectivePath, cfg, verbose)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg, verbose)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the process-wide configuration. It should be called
// only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		// This indicates a programming error - LoadConfig should be called in main.
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
