package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// HashConfig configures the two hashing stages.
type HashConfig struct {
	// Algorithm is the full-content digest: sha1, sha256, or sha512.
	Algorithm string `mapstructure:"algorithm"`

	// QuickSample is the number of leading bytes hashed by the quick
	// stage, as a human-readable size string.
	QuickSample string `mapstructure:"quick_sample"`

	// QuickBuffer is the read buffer size for the quick stage.
	QuickBuffer string `mapstructure:"quick_buffer"`

	// FullBuffer is the chunk size for streaming full-content hashing.
	FullBuffer string `mapstructure:"full_buffer"`
}

// Config represents the application configuration.
type Config struct {
	MinSize        string   `mapstructure:"min_size"`
	DefaultPath    string   `mapstructure:"default_path"`
	Ignore         []string `mapstructure:"ignore"`
	IncludeHidden  bool     `mapstructure:"include_hidden"`
	FollowSymlinks bool     `mapstructure:"follow_symlinks"`
	SkipHardlinks  bool     `mapstructure:"skip_hardlinks"`
	Workers        int      `mapstructure:"workers"`

	Hash    HashConfig    `mapstructure:"hash"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/dupescan/config.yaml
//   - $HOME/.config/dupescan/config.yaml
//
// Environment variables are prefixed with DUPESCAN_ (e.g., DUPESCAN_MIN_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "dupescan"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "dupescan"))

	// Set environment variable prefix and enable auto env binding
	v.SetEnvPrefix("DUPESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("min_size", DefaultMinSize)
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("ignore", DefaultIgnores)
	v.SetDefault("include_hidden", false)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("skip_hardlinks", false)
	v.SetDefault("workers", DefaultWorkers)

	// Hash defaults
	v.SetDefault("hash.algorithm", DefaultHashAlgorithm)
	v.SetDefault("hash.quick_sample", DefaultQuickSample)
	v.SetDefault("hash.quick_buffer", DefaultQuickBuffer)
	v.SetDefault("hash.full_buffer", DefaultFullBuffer)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"walker":   "info",
		"pipeline": "info",
		"tui":      "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path, expanding ~ to the user's home directory.
func ConfigDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "dupescan"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "dupescan"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Dupescan Duplicate Finder Configuration

# Minimum file size to include in duplicate detection
min_size: "%s"

# Default path to scan when none is specified
default_path: %s

# Directory and file names skipped during traversal
ignore:
  - .git
  - node_modules

# Include hidden files and directories
include_hidden: false

# Follow symbolic links during traversal
follow_symlinks: false

# Treat hard links to the same data as a single file
skip_hardlinks: false

# Worker count for hashing stages (0 = size from hardware)
workers: %d

# Hashing configuration
hash:
  # Full-content digest: sha1, sha256, or sha512
  algorithm: %s
  # Leading bytes read by the quick-hash stage
  quick_sample: %s
  # Read buffer size for the quick-hash stage
  quick_buffer: %s
  # Chunk size for streaming full-content hashing
  full_buffer: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/dupescan/dupescan.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    walker: info
    pipeline: info
    tui: info
`, DefaultMinSize, DefaultPath, DefaultWorkers, DefaultHashAlgorithm,
		DefaultQuickSample, DefaultQuickBuffer, DefaultFullBuffer)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/dupescan/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dupescan")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "dupescan.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
