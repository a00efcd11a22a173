package main

import (
	"fmt"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initializeLogging is the PersistentPreRunE hook. It loads the
// configuration, makes sure the config and state directories exist,
// and initializes the logging system before any command runs.
func initializeLogging(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	return logging.Init(buildLoggingConfig(cfg))
}

// initTUILogging re-initializes logging for TUI mode. Console output is
// suppressed so log lines cannot corrupt the alternate screen; file
// logging is unaffected.
func initTUILogging() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lc := buildLoggingConfig(cfg)
	lc.TUIMode = true
	return logging.Init(lc)
}

// buildLoggingConfig assembles the logging configuration from the
// config file and flag overrides. --log-level overrides the file
// setting, and --verbose adds a debug console sink.
func buildLoggingConfig(cfg *config.Config) logging.Config {
	level := cfg.Logging.Level
	if flagLevel := viper.GetString("log_level"); flagLevel != "" {
		level = flagLevel
	}
	if level == "" {
		level = "info"
	}

	lc := logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}

	if getVerbose() {
		lc.ConsoleLevel = "debug"
	}

	return lc
}

// parseRotationConfig converts the human-readable rotation settings
// into the logging package's byte-valued form. Empty or invalid sizes
// fall back to the 10MB default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize, err := types.ParseSize(rc.MaxSize)
	if err != nil || maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
}
