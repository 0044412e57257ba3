// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/easel/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	// Logger filters
	EnableTags   *string
	DisableTags  *string
	EnablePkgs   *string
	DisablePkgs  *string
	EnableFiles  *string
	DisableFiles *string
	DebugLog     *bool
	// History
	HistoryDepth   *int
	SpillThreshold *int64
	TempDir        *string
	// View
	SystemClipboard *bool
	NoHistoryPanel  *bool
	Theme           *string
	// New document size
	Width  *int
	Height *int
}

// DefineFlags sets up the command-line flags on fs and associates them
// with the Flags struct fields.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.HistoryDepth = fs.Int("history-depth", 0, "Maximum number of undo steps - Overrides config file")
	f.SpillThreshold = fs.Int64("spill-threshold", 0, "Snapshot size in bytes from which pixels are kept in scratch files (0 = always, negative = never) - Overrides config file")
	f.TempDir = fs.String("tempdir", "", "Directory for snapshot scratch files - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Copy the history list to the system clipboard instead of the internal one")
	f.NoHistoryPanel = fs.Bool("no-history", false, "Hide the history panel")
	f.Theme = fs.String("theme", "", "Name of the color theme - Overrides config file")
	f.Width = fs.Int("width", 0, "Width of the new document - Overrides config file")
	f.Height = fs.Int("height", 0, "Height of the new document - Overrides config file")
}

// ParseFlags defines the flags on fs and parses args (usually os.Args[1:]).
// It returns the remaining non-flag arguments.
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config, verbose bool) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		if verbose {
			logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		}
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // Empty string is valid ("-")
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		case "history-depth":
			if *f.HistoryDepth > 0 {
				cfg.History.MaxDepth = *f.HistoryDepth // Only override if positive
			}
		case "spill-threshold":
			cfg.History.SpillThreshold = *f.SpillThreshold
		case "tempdir":
			cfg.History.TempDir = *f.TempDir
		case "system-clipboard":
			cfg.View.SystemClipboard = *f.SystemClipboard
		case "no-history":
			cfg.View.ShowHistory = !*f.NoHistoryPanel
		case "theme":
			if *f.Theme != "" {
				cfg.View.Theme = *f.Theme
			}
		case "width":
			if *f.Width > 0 {
				cfg.Document.Width = *f.Width
			}
		case "height":
			if *f.Height > 0 {
				cfg.Document.Height = *f.Height
			}
		}
	})
}

// Helper function to split comma-separated list
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
