package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/output"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/viper"
)

func TestResolveRootsValid(t *testing.T) {
	resetViperForTest()
	dir := t.TempDir()

	roots, err := resolveRoots([]string{dir})
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if !filepath.IsAbs(roots[0]) {
		t.Errorf("expected absolute path, got %s", roots[0])
	}
}

func TestResolveRootsMultiple(t *testing.T) {
	resetViperForTest()
	dirA := t.TempDir()
	dirB := t.TempDir()

	roots, err := resolveRoots([]string{dirA, dirB})
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
}

func TestResolveRootsNonExistent(t *testing.T) {
	resetViperForTest()

	_, err := resolveRoots([]string{"/nonexistent/path/that/should/not/exist"})
	if err == nil {
		t.Fatal("expected error for non-existent path")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected 'does not exist' in error, got: %v", err)
	}
}

func TestResolveRootsFile(t *testing.T) {
	resetViperForTest()
	dir := t.TempDir()
	file := filepath.Join(dir, "regular.txt")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := resolveRoots([]string{file})
	if err == nil {
		t.Fatal("expected error for a non-directory root")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("expected 'not a directory' in error, got: %v", err)
	}
}

func TestResolveRootsDefaultPath(t *testing.T) {
	resetViperForTest()
	dir := t.TempDir()
	viper.Set("default_path", dir)

	roots, err := resolveRoots(nil)
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}
	if len(roots) != 1 || roots[0] != dir {
		t.Errorf("expected default path %s, got %v", dir, roots)
	}
}

func TestResolveFormatterDefaultWhenPiped(t *testing.T) {
	resetViperForTest()

	// Tests never run on a terminal, so the fallback is the plain formatter
	f, err := resolveFormatter()
	if err != nil {
		t.Fatalf("resolveFormatter() error = %v", err)
	}
	if _, ok := f.(*output.PlainFormatter); !ok {
		t.Errorf("expected *output.PlainFormatter, got %T", f)
	}
}

func TestResolveFormatterExplicit(t *testing.T) {
	resetViperForTest()
	viper.Set("output", "yaml")

	f, err := resolveFormatter()
	if err != nil {
		t.Fatalf("resolveFormatter() error = %v", err)
	}
	if _, ok := f.(*output.YAMLFormatter); !ok {
		t.Errorf("expected *output.YAMLFormatter, got %T", f)
	}
}

func TestResolveFormatterUnknown(t *testing.T) {
	resetViperForTest()
	viper.Set("output", "spreadsheet")

	_, err := resolveFormatter()
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "available formats") {
		t.Errorf("expected the error to list available formats, got: %v", err)
	}
}

func TestResolveFormatterCustomTemplate(t *testing.T) {
	resetViperForTest()
	viper.Set("output", "template")
	viper.Set("template", "{{range .Groups}}{{.Hash}}\n{{end}}")

	f, err := resolveFormatter()
	if err != nil {
		t.Fatalf("resolveFormatter() error = %v", err)
	}
	if _, ok := f.(*output.TemplateFormatter); !ok {
		t.Errorf("expected *output.TemplateFormatter, got %T", f)
	}
}

func TestResolveFormatterTemplateWithoutFlag(t *testing.T) {
	resetViperForTest()
	viper.Set("output", "template")

	// Without --template the registered default template is used
	f, err := resolveFormatter()
	if err != nil {
		t.Fatalf("resolveFormatter() error = %v", err)
	}
	if _, ok := f.(*output.TemplateFormatter); !ok {
		t.Errorf("expected *output.TemplateFormatter, got %T", f)
	}
}

func TestWriteReportFile(t *testing.T) {
	resetViperForTest()
	path := filepath.Join(t.TempDir(), "report.json")
	viper.Set("output_file", path)

	rep := &report.Report{
		ID:        "test-scan",
		Timestamp: time.Now(),
		Roots:     []string{"/data"},
		Algorithm: "sha256",
		Groups: []types.DuplicateGroup{
			{Hash: "abc123", Size: 1024, Files: []string{"/data/a", "/data/b"}},
		},
	}

	if err := writeReportFile(rep); err != nil {
		t.Fatalf("writeReportFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file was not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"id": "test-scan"`) {
		t.Errorf("expected the report id in the JSON document, got:\n%s", content)
	}
	if !strings.Contains(content, `"abc123"`) {
		t.Errorf("expected the group hash in the JSON document, got:\n%s", content)
	}
}

func TestWriteReportFileDisabled(t *testing.T) {
	resetViperForTest()

	// No output_file set: nothing to write, no error
	if err := writeReportFile(&report.Report{}); err != nil {
		t.Fatalf("writeReportFile() error = %v", err)
	}
}
