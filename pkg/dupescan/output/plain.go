package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied. Every member row repeats the group
// digest so the output can be sorted, joined, and filtered with
// standard text tools.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Use tabwriter for aligned columns
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	// Write header
	_, err := tw.Write([]byte("SIZE\tHASH\tPATH\n"))
	if err != nil {
		return err
	}

	// Write data rows
	for i := range r.Report.Groups {
		g := &r.Report.Groups[i]
		size := types.FormatSize(g.Size)
		for _, path := range g.Files {
			_, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", size, g.Hash, path)
			if err != nil {
				return err
			}
		}
	}

	// Flush tabwriter to buffer
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
