package pipeline

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/hasher"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// ErrInvalidOption is returned when an option value is out of range.
// Option problems are rejected before any filesystem work begins.
var ErrInvalidOption = errors.New("invalid option")

// Options configures a duplicate scan.
type Options struct {
	// Roots are the directories to scan. Defaults to ["."].
	Roots []string

	// MinSize excludes files smaller than this many bytes from
	// duplicate detection. Must not be negative.
	MinSize int64

	// IncludeHidden includes dotfiles and hidden directories.
	IncludeHidden bool

	// FollowSymlinks resolves symbolic links during traversal.
	FollowSymlinks bool

	// SkipHardlinks keeps a single representative per (device, inode)
	// identity so hard links to the same data are not reported as
	// duplicates of each other. When false, hard links are treated as
	// ordinary duplicates.
	SkipHardlinks bool

	// Ignore lists names and glob patterns skipped during traversal.
	Ignore []string

	// Workers bounds the hashing worker pool. Zero selects an
	// automatic value based on detected system resources. Must not be
	// negative.
	Workers int

	// Algorithm names the full-content digest algorithm: sha1, sha256,
	// or sha512. Empty selects the default.
	Algorithm string

	// QuickSample is the number of leading bytes the sampling stage
	// digests. Zero is legal: it collapses the stage into a
	// pass-through so every same-size file proceeds to full hashing.
	QuickSample int64

	// QuickBuffer is the read buffer size for the sampling stage.
	// Zero uses the default.
	QuickBuffer int

	// FullBuffer is the chunk size for full-content digests.
	// Zero uses the default.
	FullBuffer int

	// OnProgress, when set, receives progress snapshots from every
	// stage. Callbacks must be fast; they run on pipeline goroutines.
	OnProgress func(types.Progress)
}

// DefaultOptions returns options with default values.
func DefaultOptions() Options {
	return Options{
		Roots:       []string{config.DefaultPath},
		MinSize:     0,
		Workers:     config.DefaultWorkers,
		Algorithm:   config.DefaultHashAlgorithm,
		QuickSample: 8 * types.KiB,
		QuickBuffer: int(64 * types.KiB),
		FullBuffer:  int(types.MiB),
		Ignore:      append([]string(nil), config.DefaultIgnores...),
	}
}

// Validate checks option values and applies defaults. Negative sizes,
// buffers, or worker counts are rejected rather than silently clamped;
// a zero QuickSample is accepted as a deliberate configuration.
func (o *Options) Validate() error {
	if len(o.Roots) == 0 {
		o.Roots = []string{config.DefaultPath}
	}

	if o.MinSize < 0 {
		return fmt.Errorf("%w: min size must not be negative (got %d)", ErrInvalidOption, o.MinSize)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative (got %d)", ErrInvalidOption, o.Workers)
	}
	if o.QuickSample < 0 {
		return fmt.Errorf("%w: quick sample must not be negative (got %d)", ErrInvalidOption, o.QuickSample)
	}
	if o.QuickBuffer < 0 {
		return fmt.Errorf("%w: quick buffer must not be negative (got %d)", ErrInvalidOption, o.QuickBuffer)
	}
	if o.FullBuffer < 0 {
		return fmt.Errorf("%w: full buffer must not be negative (got %d)", ErrInvalidOption, o.FullBuffer)
	}

	if o.Algorithm == "" {
		o.Algorithm = config.DefaultHashAlgorithm
	}
	if _, err := hasher.Lookup(o.Algorithm); err != nil {
		return err
	}

	if o.QuickBuffer == 0 {
		o.QuickBuffer = int(64 * types.KiB)
	}
	if o.FullBuffer == 0 {
		o.FullBuffer = int(types.MiB)
	}

	return nil
}
