package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/easel/internal/logger"
)

// ThemeAPI is the theme side of API.
type ThemeAPI interface {
	SetTheme(name string) error
	CurrentTheme() string
	ListThemes() []string
	SetStatusMessage(format string, args ...interface{})
}

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(reg Registrar, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			themeAPI.SetStatusMessage("Current theme: %s", themeAPI.CurrentTheme())
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := themeAPI.SetTheme(themeName); err != nil {
			themeList := strings.Join(themeAPI.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeAPI.CurrentTheme())
		return nil
	}

	themeListCmdFunc := func([]string) error {
		themeAPI.SetStatusMessage("Available themes: %s", strings.Join(themeAPI.ListThemes(), ", "))
		return nil
	}

	if err := reg.RegisterCommand("theme", themeCmdFunc); err != nil {
		logger.Warnf("Failed to register ':theme' command: %v", err)
	}
	if err := reg.RegisterCommand("themes", themeListCmdFunc); err != nil {
		logger.Warnf("Failed to register ':themes' command: %v", err)
	}
}
