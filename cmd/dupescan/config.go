package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: heredoc.Doc(`
		Manage dupescan configuration settings.

		Configuration is loaded from:
		  1. $XDG_CONFIG_HOME/dupescan/config.yaml (if set)
		  2. ~/.config/dupescan/config.yaml

		Environment variables can override config file settings using the
		DUPESCAN_ prefix:
		  DUPESCAN_MIN_SIZE=4K
		  DUPESCAN_WORKERS=8
		  DUPESCAN_HASH_ALGORITHM=sha512
	`),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: heredoc.Doc(`
		Open the configuration file in your default editor.

		The editor is determined by:
		  1. $VISUAL environment variable
		  2. $EDITOR environment variable
		  3. Falls back to 'vi'

		If the config file doesn't exist, a default one will be created first.
	`),
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			MinSize:     config.DefaultMinSize,
			DefaultPath: config.DefaultPath,
			Ignore:      config.DefaultIgnores,
			Workers:     config.DefaultWorkers,
		}
		cfg.Hash.Algorithm = config.DefaultHashAlgorithm
		cfg.Hash.QuickSample = config.DefaultQuickSample
		cfg.Hash.QuickBuffer = config.DefaultQuickBuffer
		cfg.Hash.FullBuffer = config.DefaultFullBuffer
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	// Display configuration
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("min_size:           %s\n", cfg.MinSize)
	fmt.Printf("default_path:       %s\n", cfg.DefaultPath)
	fmt.Printf("ignore:             %v\n", cfg.Ignore)
	fmt.Printf("include_hidden:     %t\n", cfg.IncludeHidden)
	fmt.Printf("follow_symlinks:    %t\n", cfg.FollowSymlinks)
	fmt.Printf("skip_hardlinks:     %t\n", cfg.SkipHardlinks)
	fmt.Printf("workers:            %d\n", cfg.Workers)
	fmt.Printf("hash.algorithm:     %s\n", cfg.Hash.Algorithm)
	fmt.Printf("hash.quick_sample:  %s\n", cfg.Hash.QuickSample)
	fmt.Printf("hash.quick_buffer:  %s\n", cfg.Hash.QuickBuffer)
	fmt.Printf("hash.full_buffer:   %s\n", cfg.Hash.FullBuffer)
	fmt.Printf("logging.level:      %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:       %s\n", cfg.Logging.Path)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []struct {
		name string
		key  string
	}{
		{"DUPESCAN_MIN_SIZE", "min_size"},
		{"DUPESCAN_DEFAULT_PATH", "default_path"},
		{"DUPESCAN_IGNORE", "ignore"},
		{"DUPESCAN_INCLUDE_HIDDEN", "include_hidden"},
		{"DUPESCAN_FOLLOW_SYMLINKS", "follow_symlinks"},
		{"DUPESCAN_SKIP_HARDLINKS", "skip_hardlinks"},
		{"DUPESCAN_WORKERS", "workers"},
		{"DUPESCAN_HASH_ALGORITHM", "hash.algorithm"},
		{"DUPESCAN_HASH_QUICK_SAMPLE", "hash.quick_sample"},
		{"DUPESCAN_HASH_QUICK_BUFFER", "hash.quick_buffer"},
		{"DUPESCAN_HASH_FULL_BUFFER", "hash.full_buffer"},
		{"DUPESCAN_LOGGING_LEVEL", "logging.level"},
	}

	anyOverrides := false
	for _, ev := range envVars {
		if val := os.Getenv(ev.name); val != "" {
			fmt.Printf("%s=%s\n", ev.name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	// Get config file path
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Determine editor
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	// Open editor
	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'dupescan config edit' to modify it.")
		return nil
	}

	// Create default config
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
