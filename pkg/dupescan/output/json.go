package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	ID                   string                 `json:"id"`
	Timestamp            time.Time              `json:"timestamp"`
	Roots                []string               `json:"roots"`
	Algorithm            string                 `json:"algorithm"`
	TotalFilesScanned    int64                  `json:"total_files_scanned"`
	TotalSizeGroups      int64                  `json:"total_size_groups"`
	TotalDuplicateGroups int64                  `json:"total_duplicate_groups"`
	TotalDuplicateFiles  int64                  `json:"total_duplicate_files"`
	TotalWastedSpace     int64                  `json:"total_wasted_space"`
	ScanDurationSeconds  float64                `json:"scan_duration_seconds"`
	Groups               []types.DuplicateGroup `json:"groups"`
	Warnings             []types.Warning        `json:"warnings,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with scan totals and all
// duplicate groups.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	rep := r.Report
	groups := rep.Groups
	if groups == nil {
		groups = []types.DuplicateGroup{}
	}

	return jsonOutput{
		ID:                   rep.ID,
		Timestamp:            rep.Timestamp,
		Roots:                rep.Roots,
		Algorithm:            rep.Algorithm,
		TotalFilesScanned:    rep.Stats.FilesScanned,
		TotalSizeGroups:      rep.Stats.SizeGroups,
		TotalDuplicateGroups: rep.Stats.DuplicateGroups,
		TotalDuplicateFiles:  rep.Stats.DuplicateFiles,
		TotalWastedSpace:     rep.Stats.ReclaimableBytes,
		ScanDurationSeconds:  rep.Stats.Elapsed.Seconds(),
		Groups:               groups,
		Warnings:             rep.Warnings,
	}
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each duplicate group is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for i := range r.Report.Groups {
		data, err := json.Marshal(&r.Report.Groups[i])
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
