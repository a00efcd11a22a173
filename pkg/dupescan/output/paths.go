package output

import (
	"bytes"
)

// PathsFormatter formats output as one redundant copy per line.
// For each duplicate group the first member is treated as the original
// and every remaining member is printed, producing a list of paths that
// could be removed without losing any content. Suitable for piping to
// other tools.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Result) error {
	for i := range r.Report.Groups {
		for _, path := range r.Report.Groups[i].Files[1:] {
			w.WriteString(path)
			w.WriteByte('\n')
		}
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)

// NullFormatter formats output as null-delimited redundant copies.
// It produces the same paths as PathsFormatter separated by null bytes
// (0x00), suitable for use with xargs -0 or other tools that support
// null-delimited input. This format safely handles paths containing
// spaces, newlines, or other special characters.
type NullFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *NullFormatter) Format(w *bytes.Buffer, r *Result) error {
	for i := range r.Report.Groups {
		for _, path := range r.Report.Groups[i].Files[1:] {
			w.WriteString(path)
			w.WriteByte(0) // Null byte delimiter
		}
	}
	return nil
}

func init() {
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

// Ensure NullFormatter implements Formatter.
var _ Formatter = (*NullFormatter)(nil)
