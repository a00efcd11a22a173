package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	ID                   string        `yaml:"id"`
	Timestamp            time.Time     `yaml:"timestamp"`
	Roots                []string      `yaml:"roots"`
	Algorithm            string        `yaml:"algorithm"`
	TotalFilesScanned    int64         `yaml:"total_files_scanned"`
	TotalSizeGroups      int64         `yaml:"total_size_groups"`
	TotalDuplicateGroups int64         `yaml:"total_duplicate_groups"`
	TotalDuplicateFiles  int64         `yaml:"total_duplicate_files"`
	TotalWastedSpace     int64         `yaml:"total_wasted_space"`
	ScanDurationSeconds  float64       `yaml:"scan_duration_seconds"`
	Groups               []yamlGroup   `yaml:"groups"`
	Warnings             []yamlWarning `yaml:"warnings,omitempty"`
}

// yamlGroup represents a duplicate group in YAML output.
type yamlGroup struct {
	Hash  string   `yaml:"hash"`
	Size  int64    `yaml:"size"`
	Files []string `yaml:"files"`
}

// yamlWarning represents a skipped path in YAML output.
type yamlWarning struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Result to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Result) yamlOutput {
	rep := r.Report

	groups := make([]yamlGroup, len(rep.Groups))
	for i, g := range rep.Groups {
		groups[i] = yamlGroup{
			Hash:  g.Hash,
			Size:  g.Size,
			Files: g.Files,
		}
	}

	warnings := make([]yamlWarning, len(rep.Warnings))
	for i, warning := range rep.Warnings {
		warnings[i] = yamlWarning{
			Path:   warning.Path,
			Reason: warning.Reason,
		}
	}

	return yamlOutput{
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
		Warnings:             warnings,
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
