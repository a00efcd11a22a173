// Package types provides core data types for the dupescan duplicate finder.
// It includes structures for candidate files, duplicate groups, scan results,
// and progress snapshots, along with utility functions for parsing and
// formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// CandidateFile describes a regular file discovered during traversal that
// is eligible for duplicate detection. It captures the metadata the
// pipeline needs to group, hash, and report the file.
type CandidateFile struct {
	// Path is the path to the file as discovered under the scan root.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// Dev is the device number of the filesystem containing the file.
	// Zero on platforms that do not expose it.
	Dev uint64 `json:"-"`

	// Ino is the inode number of the file. Zero on platforms that do
	// not expose it. Together with Dev it identifies hard links to the
	// same underlying data.
	Ino uint64 `json:"-"`
}

// HumanSize returns the file size formatted as a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB).
func (c *CandidateFile) HumanSize() string {
	return FormatSize(c.Size)
}

// DuplicateGroup is a set of files whose full contents are identical.
// Every group contains at least two members.
type DuplicateGroup struct {
	// Hash is the hex-encoded full-content digest shared by all members.
	Hash string `json:"hash"`

	// Size is the size in bytes of each member file.
	Size int64 `json:"size"`

	// Files contains the paths of all members, sorted lexicographically.
	Files []string `json:"files"`
}

// Count returns the number of member files in the group.
func (g *DuplicateGroup) Count() int {
	return len(g.Files)
}

// Reclaimable returns the bytes freed by keeping one member and removing
// the rest: (Count-1) * Size.
func (g *DuplicateGroup) Reclaimable() int64 {
	if len(g.Files) == 0 {
		return 0
	}
	return int64(len(g.Files)-1) * g.Size
}

// Warning records a non-fatal problem encountered while scanning or
// hashing. Warnings never abort a scan; they accumulate in the result
// so callers can surface them after the fact.
type Warning struct {
	// Path is the file or directory path where the problem occurred.
	Path string `json:"path"`

	// Reason is the message describing what went wrong.
	Reason string `json:"reason"`
}

// ScanStats aggregates counters describing a completed scan.
type ScanStats struct {
	// FilesScanned is the total number of regular files examined during
	// traversal, including files later excluded by size grouping.
	FilesScanned int64 `json:"files_scanned"`

	// DirsScanned is the total number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned"`

	// SizeGroups is the number of size classes holding two or more
	// candidates after grouping.
	SizeGroups int64 `json:"size_groups"`

	// DuplicateGroups is the number of confirmed duplicate groups.
	DuplicateGroups int64 `json:"duplicate_groups"`

	// DuplicateFiles is the total number of files across all groups.
	DuplicateFiles int64 `json:"duplicate_files"`

	// ReclaimableBytes is the sum over all groups of (members-1) * size.
	ReclaimableBytes int64 `json:"reclaimable_bytes"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Stage identifies a phase of the duplicate detection pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageWalk  Stage = "walk"
	StageGroup Stage = "group"
	StageQuick Stage = "quick-hash"
	StageFull  Stage = "full-hash"
)

// Progress reports a point-in-time snapshot of a running scan.
// The TUI and logging callbacks consume these snapshots.
type Progress struct {
	// Stage is the pipeline phase currently executing.
	Stage Stage `json:"stage"`

	// DirsScanned is the number of directories processed so far.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of files examined so far.
	FilesScanned int64 `json:"files_scanned"`

	// Candidates is the number of files accepted for duplicate
	// detection so far.
	Candidates int64 `json:"candidates"`

	// QuickHashed is the number of files whose prefix digest has been
	// computed.
	QuickHashed int64 `json:"quick_hashed"`

	// FullHashed is the number of files whose full-content digest has
	// been computed.
	FullHashed int64 `json:"full_hashed"`

	// BytesHashed is the total bytes read by the hashing stages so far,
	// counting both prefix samples and full-content reads.
	BytesHashed int64 `json:"bytes_hashed"`

	// CurrentPath is the path most recently processed.
	CurrentPath string `json:"current_path"`

	// WalkComplete indicates that directory traversal is finished.
	// The TUI uses this to freeze the displayed file counters.
	WalkComplete bool `json:"walk_complete,omitempty"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports the following formats:
//   - Plain bytes: "1024", "0"
//   - With byte suffix: "512B", "512b"
//   - Kilobytes: "100K", "100k", "100KB", "100KiB"
//   - Megabytes: "50M", "50m", "50MB", "50MiB"
//   - Gigabytes: "2G", "2g", "2GB", "2GiB"
//   - Terabytes: "1T", "1t", "1TB", "1TiB"
//
// Decimal values are supported and truncated to the nearest byte.
// Leading and trailing whitespace is ignored.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	// Check for negative values
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Parse the numeric value
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Determine the multiplier based on the suffix
	suffix := strings.ToUpper(matches[2])
	// Remove 'B' or 'IB' suffix to get just the unit letter
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
//
// Examples:
//   - FormatSize(0) returns "0 B"
//   - FormatSize(1024) returns "1.0 KiB"
//   - FormatSize(1536*1024) returns "1.5 MiB"
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
