package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dupescan [paths...]",
		Short: "Find duplicate files by content",
		Long: heredoc.Doc(`
			Dupescan finds files with identical content. Same-size files are
			compared by a sampled digest and confirmed with a full cryptographic
			digest, so only exact content matches are ever reported.

			By default, dupescan shows a progress screen and styled results when
			stdout is a terminal. Use --no-interactive or a non-pretty output
			format for plain text.

			Examples:
			  dupescan                          # Scan current directory
			  dupescan ~/Pictures ~/Backups     # Scan several roots at once
			  dupescan -s 4K .                  # Skip files smaller than 4 KiB
			  dupescan -n -o json . > dups.json # Non-interactive JSON output
			  dupescan -o paths .               # Removable paths, one per line
			  dupescan config show              # Show configuration
			  dupescan formats                  # List output formats
		`),
		Args:              cobra.ArbitraryArgs,
		RunE:              runScan,
		PersistentPreRunE: initializeLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dupescan/config.yaml)")
	rootCmd.PersistentFlags().StringP("min-size", "s", "", "minimum file size to consider (e.g., 4K, 1M)")
	rootCmd.PersistentFlags().Int("threads", 0, "hashing worker count (0=auto)")
	rootCmd.PersistentFlags().BoolP("hidden", "H", false, "include hidden files and directories")
	rootCmd.PersistentFlags().BoolP("follow-symlinks", "L", false, "follow symbolic links during traversal")
	rootCmd.PersistentFlags().StringSlice("ignore", nil, "directory or file names to skip (can be specified multiple times)")
	rootCmd.PersistentFlags().Bool("no-default-ignores", false, "do not skip .git and node_modules")
	rootCmd.PersistentFlags().Bool("skip-hardlinks", false, "report hard links to the same data only once")
	rootCmd.PersistentFlags().String("hash", "", "full digest algorithm: sha1, sha256, sha512")
	rootCmd.PersistentFlags().String("quick-sample", "", "leading bytes read by the sampling stage (e.g., 8K, 0 to disable)")
	rootCmd.PersistentFlags().String("quick-buffer", "", "read buffer size for the sampling stage")
	rootCmd.PersistentFlags().String("full-buffer", "", "chunk size for full-content hashing")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (see 'dupescan formats')")
	rootCmd.PersistentFlags().String("output-file", "", "also write the JSON report to this file")
	rootCmd.PersistentFlags().String("template", "", "Go template for -o template")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable the progress screen, use text output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().String("log-level", "", "log file level: debug, info, warn, error")

	// Bind flags to viper
	_ = viper.BindPFlag("min_size", rootCmd.PersistentFlags().Lookup("min-size"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("threads"))
	_ = viper.BindPFlag("include_hidden", rootCmd.PersistentFlags().Lookup("hidden"))
	_ = viper.BindPFlag("follow_symlinks", rootCmd.PersistentFlags().Lookup("follow-symlinks"))
	_ = viper.BindPFlag("ignore", rootCmd.PersistentFlags().Lookup("ignore"))
	_ = viper.BindPFlag("no_default_ignores", rootCmd.PersistentFlags().Lookup("no-default-ignores"))
	_ = viper.BindPFlag("skip_hardlinks", rootCmd.PersistentFlags().Lookup("skip-hardlinks"))
	_ = viper.BindPFlag("hash.algorithm", rootCmd.PersistentFlags().Lookup("hash"))
	_ = viper.BindPFlag("hash.quick_sample", rootCmd.PersistentFlags().Lookup("quick-sample"))
	_ = viper.BindPFlag("hash.quick_buffer", rootCmd.PersistentFlags().Lookup("quick-buffer"))
	_ = viper.BindPFlag("hash.full_buffer", rootCmd.PersistentFlags().Lookup("full-buffer"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("output_file", rootCmd.PersistentFlags().Lookup("output-file"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "dupescan"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "dupescan"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("DUPESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package. The ignore key deliberately has
	// no default here: built-in ignore names are merged in by
	// effectiveIgnores so user entries append rather than replace.
	viper.SetDefault("min_size", config.DefaultMinSize)
	viper.SetDefault("default_path", config.DefaultPath)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("hash.algorithm", config.DefaultHashAlgorithm)
	viper.SetDefault("hash.quick_sample", config.DefaultQuickSample)
	viper.SetDefault("hash.quick_buffer", config.DefaultQuickBuffer)
	viper.SetDefault("hash.full_buffer", config.DefaultFullBuffer)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
