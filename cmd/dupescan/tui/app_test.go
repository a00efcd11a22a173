package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/dupescan/pkg/dupescan/pipeline"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func testOptions() Options {
	opts := pipeline.DefaultOptions()
	opts.Roots = []string{"/test/path"}
	return Options{Pipeline: opts, Version: "dev"}
}

func TestNewModel(t *testing.T) {
	m := NewModel(testOptions())

	if m.scanDone {
		t.Error("expected scanDone to be false initially")
	}
	if m.report != nil {
		t.Error("expected report to be nil initially")
	}
	if m.progressChan == nil {
		t.Error("expected progress channel to be created")
	}
	select {
	case <-m.ctx.Done():
		t.Error("expected context to be live initially")
	default:
	}
}

func TestModelCancelKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			m := NewModel(testOptions())

			updated, cmd := m.Update(key)
			if cmd != nil {
				t.Error("expected no command: quit waits for pipeline shutdown")
			}

			select {
			case <-m.ctx.Done():
			default:
				t.Error("expected context to be cancelled")
			}

			mm, ok := updated.(Model)
			if !ok {
				t.Fatalf("unexpected model type %T", updated)
			}
			if !mm.scanModel.stopping {
				t.Error("expected scan model to show the stopping state")
			}
		})
	}
}

func TestModelScanComplete(t *testing.T) {
	m := NewModel(testOptions())

	rep := &report.Report{ID: "test", Roots: []string{"/test/path"}}
	updated, cmd := m.Update(ScanCompleteMsg{Report: rep})

	mm, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	if !mm.scanDone {
		t.Error("expected scanDone to be true")
	}
	if mm.report != rep {
		t.Error("expected report to be stored")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected the command to quit the program")
	}
}

func TestModelScanCompleteWithError(t *testing.T) {
	m := NewModel(testOptions())

	scanErr := &testError{"scan failed"}
	updated, cmd := m.Update(ScanCompleteMsg{Err: scanErr})

	mm := updated.(Model)
	if mm.scanErr == nil {
		t.Error("expected scanErr to be stored")
	}
	if mm.report != nil {
		t.Error("expected no report on error")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestModelProgressUpdates(t *testing.T) {
	m := NewModel(testOptions())

	progress := types.Progress{
		Stage:        types.StageWalk,
		FilesScanned: 42,
		CurrentPath:  "/test/path/sub",
	}
	updated, cmd := m.Update(ProgressMsg(progress))

	mm := updated.(Model)
	if mm.scanModel.progress.FilesScanned != 42 {
		t.Errorf("expected FilesScanned 42, got %d", mm.scanModel.progress.FilesScanned)
	}
	if cmd == nil {
		t.Error("expected a command to keep listening for progress")
	}
}

func TestModelWindowSize(t *testing.T) {
	m := NewModel(testOptions())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	mm := updated.(Model)
	if mm.width != 120 || mm.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", mm.width, mm.height)
	}
	if mm.scanModel.width != 120 {
		t.Error("expected window size to propagate to the scan model")
	}
}
