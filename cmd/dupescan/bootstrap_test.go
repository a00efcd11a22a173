package main

import (
	"os"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/spf13/viper"
)

func TestParseRotationConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    config.RotationConfig
		expected logging.RotationConfig
	}{
		{
			name: "default values",
			input: config.RotationConfig{
				MaxSize:    "10MB",
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
		},
		{
			name: "custom size in gigabytes",
			input: config.RotationConfig{
				MaxSize:    "1G",
				MaxAge:     7,
				MaxBackups: 3,
				Daily:      false,
			},
			expected: logging.RotationConfig{
				MaxSize:    1024 * 1024 * 1024, // 1GB
				MaxAge:     7,
				MaxBackups: 3,
				Daily:      false,
			},
		},
		{
			name: "empty max_size uses default",
			input: config.RotationConfig{
				MaxSize:    "",
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB default
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
		},
		{
			name: "invalid max_size uses default",
			input: config.RotationConfig{
				MaxSize:    "invalid",
				MaxAge:     21,
				MaxBackups: 4,
				Daily:      false,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB default
				MaxAge:     21,
				MaxBackups: 4,
				Daily:      false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseRotationConfig(tt.input)

			if result.MaxSize != tt.expected.MaxSize {
				t.Errorf("MaxSize = %d, want %d", result.MaxSize, tt.expected.MaxSize)
			}
			if result.MaxAge != tt.expected.MaxAge {
				t.Errorf("MaxAge = %d, want %d", result.MaxAge, tt.expected.MaxAge)
			}
			if result.MaxBackups != tt.expected.MaxBackups {
				t.Errorf("MaxBackups = %d, want %d", result.MaxBackups, tt.expected.MaxBackups)
			}
			if result.Daily != tt.expected.Daily {
				t.Errorf("Daily = %v, want %v", result.Daily, tt.expected.Daily)
			}
		})
	}
}

func TestInitializeLoggingEnsuresDirectories(t *testing.T) {
	// Note: XDG paths are cached at package init time, so we cannot
	// override them with environment variables. Instead, we verify that
	// initializeLogging creates the directories at the actual XDG paths.

	// Run initializeLogging (the PersistentPreRunE hook)
	err := initializeLogging(nil, nil)
	if err != nil {
		t.Fatalf("initializeLogging() returned error: %v", err)
	}

	// Verify directories were created using the config package's path functions
	configDir, err := config.ConfigDir()
	if err != nil {
		t.Fatalf("failed to get config dir: %v", err)
	}
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("config directory was not created: %s", configDir)
	}

	stateDir := config.StateDir()
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		t.Errorf("state directory was not created: %s", stateDir)
	}

	// Clean up logging state
	_ = logging.Close()
}

func TestBuildLoggingConfigLevelOverride(t *testing.T) {
	resetViperForTest()

	cfg := &config.Config{}
	cfg.Logging.Level = "warn"

	lc := buildLoggingConfig(cfg)
	if lc.Level != "warn" {
		t.Errorf("Level = %s, want warn", lc.Level)
	}
	if lc.ConsoleLevel != "" {
		t.Errorf("ConsoleLevel = %s, want empty without --verbose", lc.ConsoleLevel)
	}

	// --log-level beats the file setting
	resetViperForTest()
	viper.Set("log_level", "debug")
	lc = buildLoggingConfig(cfg)
	if lc.Level != "debug" {
		t.Errorf("Level = %s, want debug", lc.Level)
	}

	// --verbose adds a debug console sink
	resetViperForTest()
	viper.Set("verbose", true)
	lc = buildLoggingConfig(cfg)
	if lc.ConsoleLevel != "debug" {
		t.Errorf("ConsoleLevel = %s, want debug with --verbose", lc.ConsoleLevel)
	}
}
