package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jamesainslie/dupescan/pkg/dupescan/output"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available output formats",
	Long: heredoc.Doc(`
		List the output formats accepted by the -o/--output flag.

		The template format renders a Go text/template supplied with
		--template; all other formats are fixed renderings of the scan
		report.
	`),
	Run: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// runFormats prints the registered format names, one per line.
func runFormats(cmd *cobra.Command, args []string) {
	for _, name := range output.Available() {
		fmt.Println(name)
	}
}
