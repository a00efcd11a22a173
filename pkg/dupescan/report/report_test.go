package report

import (
	"testing"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func TestAssemble_SortsMembersLexicographically(t *testing.T) {
	in := Input{
		Groups: []types.DuplicateGroup{
			{
				Hash:  "abc",
				Size:  100,
				Files: []string{"/b/file", "/a/file", "/c/file"},
			},
		},
	}

	rep := Assemble(in)

	want := []string{"/a/file", "/b/file", "/c/file"}
	got := rep.Groups[0].Files
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Files[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssemble_SortsGroupsByReclaimable(t *testing.T) {
	in := Input{
		Groups: []types.DuplicateGroup{
			// Reclaimable: (2-1)*100 = 100
			{Hash: "small", Size: 100, Files: []string{"/s/1", "/s/2"}},
			// Reclaimable: (3-1)*500 = 1000
			{Hash: "large", Size: 500, Files: []string{"/l/1", "/l/2", "/l/3"}},
			// Reclaimable: (2-1)*300 = 300
			{Hash: "medium", Size: 300, Files: []string{"/m/1", "/m/2"}},
		},
	}

	rep := Assemble(in)

	wantOrder := []string{"large", "medium", "small"}
	for i, want := range wantOrder {
		if rep.Groups[i].Hash != want {
			t.Errorf("Groups[%d].Hash = %q, want %q", i, rep.Groups[i].Hash, want)
		}
	}
}

func TestAssemble_TieBreakByFirstPath(t *testing.T) {
	// Two groups with identical reclaimable bytes.
	in := Input{
		Groups: []types.DuplicateGroup{
			{Hash: "second", Size: 200, Files: []string{"/z/1", "/b/x"}},
			{Hash: "first", Size: 200, Files: []string{"/a/x", "/y/1"}},
		},
	}

	rep := Assemble(in)

	// After member sorting, first paths are /a/x and /b/x.
	if rep.Groups[0].Hash != "first" {
		t.Errorf("Groups[0].Hash = %q, want %q", rep.Groups[0].Hash, "first")
	}
	if rep.Groups[1].Hash != "second" {
		t.Errorf("Groups[1].Hash = %q, want %q", rep.Groups[1].Hash, "second")
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	groups := []types.DuplicateGroup{
		{Hash: "a", Size: 100, Files: []string{"/q/2", "/q/1"}},
		{Hash: "b", Size: 100, Files: []string{"/p/2", "/p/1"}},
		{Hash: "c", Size: 50, Files: []string{"/r/1", "/r/2", "/r/3"}},
	}

	// Feed the same groups in two different orders.
	first := Assemble(Input{Groups: groups})
	reversed := []types.DuplicateGroup{groups[2], groups[0], groups[1]}
	second := Assemble(Input{Groups: reversed})

	if len(first.Groups) != len(second.Groups) {
		t.Fatalf("group counts differ: %d vs %d", len(first.Groups), len(second.Groups))
	}
	for i := range first.Groups {
		if first.Groups[i].Hash != second.Groups[i].Hash {
			t.Errorf("Groups[%d] differ: %q vs %q", i, first.Groups[i].Hash, second.Groups[i].Hash)
		}
		for j := range first.Groups[i].Files {
			if first.Groups[i].Files[j] != second.Groups[i].Files[j] {
				t.Errorf("Groups[%d].Files[%d] differ: %q vs %q",
					i, j, first.Groups[i].Files[j], second.Groups[i].Files[j])
			}
		}
	}
}

func TestAssemble_Stats(t *testing.T) {
	in := Input{
		FilesScanned: 100,
		DirsScanned:  10,
		SizeGroups:   5,
		Elapsed:      2 * time.Second,
		Groups: []types.DuplicateGroup{
			{Hash: "a", Size: 100, Files: []string{"/1", "/2"}},
			{Hash: "b", Size: 50, Files: []string{"/3", "/4", "/5"}},
		},
	}

	rep := Assemble(in)

	if rep.Stats.FilesScanned != 100 {
		t.Errorf("FilesScanned = %d, want 100", rep.Stats.FilesScanned)
	}
	if rep.Stats.DirsScanned != 10 {
		t.Errorf("DirsScanned = %d, want 10", rep.Stats.DirsScanned)
	}
	if rep.Stats.SizeGroups != 5 {
		t.Errorf("SizeGroups = %d, want 5", rep.Stats.SizeGroups)
	}
	if rep.Stats.DuplicateGroups != 2 {
		t.Errorf("DuplicateGroups = %d, want 2", rep.Stats.DuplicateGroups)
	}
	if rep.Stats.DuplicateFiles != 5 {
		t.Errorf("DuplicateFiles = %d, want 5", rep.Stats.DuplicateFiles)
	}
	// (2-1)*100 + (3-1)*50 = 200
	if rep.Stats.ReclaimableBytes != 200 {
		t.Errorf("ReclaimableBytes = %d, want 200", rep.Stats.ReclaimableBytes)
	}
	if rep.Stats.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", rep.Stats.Elapsed)
	}
}

func TestAssemble_EmptyInput(t *testing.T) {
	rep := Assemble(Input{})

	if len(rep.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(rep.Groups))
	}
	if rep.Stats.DuplicateGroups != 0 {
		t.Errorf("DuplicateGroups = %d, want 0", rep.Stats.DuplicateGroups)
	}
	if rep.ID == "" {
		t.Error("expected a scan ID")
	}
	if rep.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestAssemble_UniqueIDs(t *testing.T) {
	a := Assemble(Input{})
	b := Assemble(Input{})

	if a.ID == b.ID {
		t.Errorf("expected distinct scan IDs, both were %q", a.ID)
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	groups := []types.DuplicateGroup{
		{Hash: "z", Size: 10, Files: []string{"/2", "/1"}},
		{Hash: "a", Size: 999, Files: []string{"/4", "/3"}},
	}

	_ = Assemble(Input{Groups: groups})

	// The input slice order is preserved even though the report is sorted.
	if groups[0].Hash != "z" || groups[1].Hash != "a" {
		t.Error("input group order was mutated")
	}
	if groups[0].Files[0] != "/2" {
		t.Error("input member order was mutated")
	}
}
