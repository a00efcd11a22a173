package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// sampleReport builds a fixed two-group report for formatter tests.
func sampleReport() *report.Report {
	return &report.Report{
		ID:        "3f1c9a2e-8d4b-4f6a-9c7e-5b2d1a0e9f8c",
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Roots:     []string{"/data"},
		Algorithm: "sha256",
		Groups: []types.DuplicateGroup{
			{
				Hash:  "aa11bb22cc33dd44ee55ff66aa77bb88cc99dd00ee11ff22aa33bb44cc55dd66",
				Size:  1048576,
				Files: []string{"/data/movies/a.mp4", "/data/movies/b.mp4", "/data/movies/c.mp4"},
			},
			{
				Hash:  "0011223344556677889900aabbccddeeff00112233445566778899aabbccddee",
				Size:  4096,
				Files: []string{"/data/docs/x.txt", "/data/docs/y.txt"},
			},
		},
		Stats: types.ScanStats{
			FilesScanned:     5000,
			DirsScanned:      100,
			SizeGroups:       12,
			DuplicateGroups:  2,
			DuplicateFiles:   5,
			ReclaimableBytes: 2*1048576 + 4096,
			Elapsed:          2 * time.Second,
		},
	}
}

// sampleResult wraps sampleReport in a Result with hyperlinks disabled.
func sampleResult() *Result {
	return &Result{Report: sampleReport()}
}

// emptyResult builds a Result for a scan that found no duplicates.
func emptyResult() *Result {
	return &Result{
		Report: &report.Report{
			ID:        "9e8d7c6b-5a49-4837-2615-04f3e2d1c0b9",
			Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			Roots:     []string{"/data"},
			Algorithm: "sha256",
			Groups:    []types.DuplicateGroup{},
			Stats: types.ScanStats{
				FilesScanned: 42,
				DirsScanned:  7,
				Elapsed:      time.Second,
			},
		},
	}
}

func TestResult(t *testing.T) {
	result := sampleResult()

	assert.Len(t, result.Report.Groups, 2)
	assert.Equal(t, []string{"/data"}, result.Report.Roots)
	assert.Equal(t, "sha256", result.Report.Algorithm)
	assert.False(t, result.Hyperlinks)

	g := result.Report.Groups[0]
	assert.Equal(t, 3, g.Count())
	assert.Equal(t, int64(2*1048576), g.Reclaimable())
}

// mockFormatter is a simple formatter for testing the registry
type mockFormatter struct {
	formatCalled bool
}

func (m *mockFormatter) Format(w *bytes.Buffer, r *Result) error {
	m.formatCalled = true
	w.WriteString("mock output")
	return nil
}

func TestFormatterInterface(t *testing.T) {
	var f Formatter = &mockFormatter{}
	var buf bytes.Buffer
	result := sampleResult()

	err := f.Format(&buf, result)
	require.NoError(t, err)
	assert.Equal(t, "mock output", buf.String())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	// Create a fresh registry for testing
	reg := NewRegistry()

	// Register a formatter factory
	mockFactory := func() Formatter {
		return &mockFormatter{}
	}
	reg.Register("mock", mockFactory)

	// Get the formatter
	formatter, err := reg.Get("mock")
	require.NoError(t, err)
	assert.NotNil(t, formatter)

	// Verify it works
	var buf bytes.Buffer
	err = formatter.Format(&buf, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "mock output", buf.String())
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestRegistry_Available(t *testing.T) {
	reg := NewRegistry()

	mockFactory := func() Formatter {
		return &mockFormatter{}
	}

	reg.Register("alpha", mockFactory)
	reg.Register("beta", mockFactory)
	reg.Register("gamma", mockFactory)

	available := reg.Available()
	assert.Contains(t, available, "alpha")
	assert.Contains(t, available, "beta")
	assert.Contains(t, available, "gamma")
	assert.Len(t, available, 3)
}

func TestRegistry_Available_Sorted(t *testing.T) {
	reg := NewRegistry()

	mockFactory := func() Formatter {
		return &mockFormatter{}
	}

	// Register in non-alphabetical order
	reg.Register("zeta", mockFactory)
	reg.Register("alpha", mockFactory)
	reg.Register("beta", mockFactory)

	available := reg.Available()
	// Should be sorted alphabetically
	assert.Equal(t, []string{"alpha", "beta", "zeta"}, available)
}

func TestGlobalRegistry(t *testing.T) {
	// All built-in formatters register themselves at init
	available := Available()
	for _, name := range []string{"csv", "json", "jsonl", "markdown", "null", "paths", "plain", "pretty", "template", "tsv", "yaml"} {
		assert.Contains(t, available, name)
	}
}
