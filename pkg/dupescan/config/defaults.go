// Package config provides configuration management for the dupescan
// duplicate finder.
package config

// Default configuration values for dupescan.
const (
	// DefaultMinSize is the minimum file size to include in scans.
	// Zero includes every non-empty file.
	DefaultMinSize = "0"

	// DefaultPath is the default path to scan when none is specified.
	DefaultPath = "."

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/dupescan"

	// DefaultWorkers is the default worker count. Zero sizes the pool
	// from the detected hardware.
	DefaultWorkers = 0

	// DefaultHashAlgorithm is the full-content digest used to confirm
	// duplicates.
	DefaultHashAlgorithm = "sha256"

	// DefaultQuickSample is the number of leading bytes read by the
	// quick-hash stage.
	DefaultQuickSample = "8KiB"

	// DefaultQuickBuffer is the read buffer size for the quick-hash stage.
	DefaultQuickBuffer = "64KiB"

	// DefaultFullBuffer is the chunk size for streaming full-content
	// hashing.
	DefaultFullBuffer = "1MiB"
)

// DefaultIgnores contains directory and file names skipped during
// traversal unless ignore filtering is disabled.
var DefaultIgnores = []string{
	".git",
	"node_modules",
}
