// Package report assembles duplicate groups into a deterministic,
// presentation-ready scan report.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Report is the final outcome of a duplicate scan.
type Report struct {
	// ID uniquely identifies this scan run.
	ID string `json:"id"`

	// Timestamp records when the scan completed.
	Timestamp time.Time `json:"timestamp"`

	// Roots lists the scanned directories as given by the caller.
	Roots []string `json:"roots"`

	// Algorithm names the full-content digest algorithm used.
	Algorithm string `json:"algorithm"`

	// Groups holds the duplicate groups, largest reclaimable first.
	Groups []types.DuplicateGroup `json:"groups"`

	// Warnings lists non-fatal problems encountered during the scan.
	Warnings []types.Warning `json:"warnings,omitempty"`

	// Stats summarizes the scan.
	Stats types.ScanStats `json:"stats"`
}

// Input carries the raw pipeline outcome into Assemble.
type Input struct {
	Roots        []string
	Algorithm    string
	Groups       []types.DuplicateGroup
	Warnings     []types.Warning
	FilesScanned int64
	DirsScanned  int64
	SizeGroups   int
	Elapsed      time.Duration
}

// Assemble orders groups and their members deterministically and
// computes summary statistics. Members sort lexicographically within a
// group; groups sort by reclaimable bytes, largest first, with the
// first member path breaking ties. The ordering depends only on the
// group contents, never on hashing completion order.
func Assemble(in Input) *Report {
	groups := make([]types.DuplicateGroup, len(in.Groups))
	copy(groups, in.Groups)

	for i := range groups {
		files := make([]string, len(groups[i].Files))
		copy(files, groups[i].Files)
		sort.Strings(files)
		groups[i].Files = files
	}

	sort.Slice(groups, func(i, j int) bool {
		ri, rj := groups[i].Reclaimable(), groups[j].Reclaimable()
		if ri != rj {
			return ri > rj
		}
		return groups[i].Files[0] < groups[j].Files[0]
	})

	stats := types.ScanStats{
		FilesScanned: in.FilesScanned,
		DirsScanned:  in.DirsScanned,
		SizeGroups:   int64(in.SizeGroups),
		Elapsed:      in.Elapsed,
	}
	for _, g := range groups {
		stats.DuplicateGroups++
		stats.DuplicateFiles += int64(g.Count())
		stats.ReclaimableBytes += g.Reclaimable()
	}

	return &Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Roots:     in.Roots,
		Algorithm: in.Algorithm,
		Groups:    groups,
		Warnings:  in.Warnings,
		Stats:     stats,
	}
}
