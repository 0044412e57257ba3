// cmd/easel/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/easel/internal/app"
	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/logger"
)

func main() {
	// --- Argument & Flag Parsing ---
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	var flags config.Flags
	if _, err := flags.ParseFlags(fs, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		os.Exit(0)
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	logger.SetDebugFilter(*flags.DebugLog)
	logCloser, err := logger.InitFromConfig(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	if cfgErr != nil {
		logger.Warnf("Configuration problem, continuing with defaults: %v", cfgErr)
	}
	logger.Infof("Starting %s %s...", config.AppName, config.AppVersion)
	logger.Debugf("History depth %d, spill threshold %d bytes", cfg.History.MaxDepth, cfg.History.SpillThreshold)

	// --- Create and Run App ---
	easelApp, err := app.NewApp(cfg, nil)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		logCloser.Close()
		os.Exit(1)
	}

	if err := easelApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
