package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jamesainslie/dupescan/cmd/dupescan/tui"
	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/output"
	"github.com/jamesainslie/dupescan/pkg/dupescan/pipeline"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/tuner"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	opts, err := buildPipelineOptions(roots)
	if err != nil {
		return err
	}

	// Determine output mode
	noInteractive := viper.GetBool("no_interactive")
	outFormat := viper.GetString("output")

	// If output format is explicitly set (not default), force non-interactive mode
	if outFormat != "" && outFormat != "pretty" {
		noInteractive = true
	}

	// The progress screen needs a terminal
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		noInteractive = true
	}

	if noInteractive {
		return runNonInteractiveScan(opts)
	}

	return runInteractiveScan(opts)
}

// resolveRoots expands, absolutizes, and verifies the scan roots. With
// no arguments the configured default path is scanned.
func resolveRoots(args []string) ([]string, error) {
	paths := args
	if len(paths) == 0 {
		defaultPath := viper.GetString("default_path")
		if defaultPath == "" {
			defaultPath = "."
		}
		paths = []string{defaultPath}
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path: %w", err)
		}

		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", absPath)
			}
			return nil, fmt.Errorf("cannot access path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("path is not a directory: %s", absPath)
		}

		roots = append(roots, absPath)
	}

	return roots, nil
}

// runNonInteractiveScan runs the scan without the progress screen.
func runNonInteractiveScan(opts pipeline.Options) error {
	formatter, err := resolveFormatter()
	if err != nil {
		return err
	}

	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	if getVerbose() {
		if resources, detectErr := tuner.Detect(); detectErr == nil {
			printVerbose("System: %d CPUs, %s RAM, %s available",
				resources.CPUCores,
				types.FormatSize(resources.TotalRAM),
				types.FormatSize(resources.AvailableRAM))
		}
		printVerbose("Config: %d hash workers, %s digest", p.Workers(), opts.Algorithm)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping scan...")
		cancel()
	}()

	if !getQuiet() {
		printInfo("Scanning %s for duplicates >= %s...",
			strings.Join(opts.Roots, ", "), types.FormatSize(opts.MinSize))
	}

	rep, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	logging.Get("cli").Info("scan complete",
		"groups", len(rep.Groups),
		"reclaimable", rep.Stats.ReclaimableBytes,
		"warnings", len(rep.Warnings))

	return renderReport(rep, formatter)
}

// runInteractiveScan drives the scan through the progress screen, then
// renders the report once the terminal is released.
func runInteractiveScan(opts pipeline.Options) error {
	// Re-initialize logging for TUI mode (disables console output)
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}

	rep, err := tui.Run(tui.Options{
		Pipeline: opts,
		Version:  version,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return err
	}

	formatter, err := resolveFormatter()
	if err != nil {
		return err
	}

	return renderReport(rep, formatter)
}

// resolveFormatter picks the output formatter from the flags. The
// default depends on where stdout goes: styled boxes on a terminal,
// plain columns when piped.
func resolveFormatter() (output.Formatter, error) {
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = "plain"
		if isatty.IsTerminal(os.Stdout.Fd()) {
			outFormat = "pretty"
		}
	}

	// A custom template replaces the registered default
	if outFormat == "template" {
		if tmplStr := viper.GetString("template"); tmplStr != "" {
			return output.NewTemplateFormatter(tmplStr), nil
		}
	}

	formatter, err := output.Get(outFormat)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}

	return formatter, nil
}

// renderReport formats the report for stdout and honors --output-file.
func renderReport(rep *report.Report, formatter output.Formatter) error {
	result := &output.Result{
		Report:     rep,
		Hyperlinks: isatty.IsTerminal(os.Stdout.Fd()),
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return writeReportFile(rep)
}

// writeReportFile writes the JSON document to --output-file when set,
// regardless of the terminal format.
func writeReportFile(rep *report.Report) error {
	path := viper.GetString("output_file")
	if path == "" {
		return nil
	}

	jsonFormatter, err := output.Get("json")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := jsonFormatter.Format(&buf, &output.Result{Report: rep}); err != nil {
		return fmt.Errorf("failed to format report file: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	printVerbose("Wrote JSON report to %s", path)
	return nil
}
