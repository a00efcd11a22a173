// Package walker provides parallel directory traversal for the dupescan
// duplicate finder. It walks one or more roots with fastwalk, applies the
// traversal policy (hidden entries, ignore patterns, minimum size), and
// collects candidate files together with non-fatal warnings.
package walker

import (
	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Options configures the walker behavior.
type Options struct {
	// Roots are the starting directories for the traversal.
	Roots []string

	// MinSize is the minimum file size in bytes for a file to become a
	// candidate. Smaller files are counted but not collected.
	MinSize int64

	// IncludeHidden includes hidden files and directories. When false,
	// dot-named entries (and platform-flagged hidden entries) are
	// skipped, and a hidden root yields no candidates.
	IncludeHidden bool

	// FollowSymlinks follows symbolic links during traversal. Directory
	// cycles introduced by links are detected and skipped.
	FollowSymlinks bool

	// Ignore contains names and glob patterns for paths to skip.
	// Patterns match the basename or the full path.
	Ignore []string

	// OnProgress is called periodically with traversal progress updates.
	// It must be safe to call from multiple goroutines.
	OnProgress func(types.Progress)
}

// DefaultOptions returns options with sensible defaults for most systems.
func DefaultOptions() Options {
	return Options{
		Roots:   []string{config.DefaultPath},
		MinSize: 0,
		Ignore:  append([]string(nil), config.DefaultIgnores...),
	}
}

// Validate normalizes the options, applying defaults for zero values.
func (o *Options) Validate() error {
	if len(o.Roots) == 0 {
		o.Roots = []string{config.DefaultPath}
	}
	if o.MinSize < 0 {
		o.MinSize = 0
	}
	return nil
}
