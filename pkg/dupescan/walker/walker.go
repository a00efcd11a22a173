package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Result holds the outcome of a traversal.
type Result struct {
	// Candidates contains the files eligible for duplicate detection.
	Candidates []types.CandidateFile

	// Warnings contains non-fatal problems encountered while walking.
	Warnings []types.Warning

	// DirsScanned is the number of directories traversed.
	DirsScanned int64

	// FilesScanned is the number of regular files examined, including
	// files below the minimum size.
	FilesScanned int64

	// Elapsed is the traversal duration.
	Elapsed time.Duration
}

// Walker performs parallel directory traversal using fastwalk.
type Walker struct {
	opts Options
	log  *logging.Logger

	// Atomic counters for thread-safe progress reporting.
	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	candidates   atomic.Int64

	// currentPath is the path currently being walked (for progress).
	currentPath atomic.Value

	// warnings collects problems without stopping the walk.
	warnings   []types.Warning
	warningsMu sync.Mutex

	// results collects candidate files.
	results   []types.CandidateFile
	resultsMu sync.Mutex

	// lastProgress tracks when we last reported progress to avoid excessive callbacks.
	lastProgress atomic.Int64

	// visited guards against directory cycles when following symlinks.
	// Keyed by (device, inode); nil unless FollowSymlinks is set.
	visited   map[devIno]struct{}
	visitedMu sync.Mutex

	// root is the resolved absolute path currently being walked.
	root string

	// walkComplete indicates directory traversal is finished.
	walkComplete atomic.Bool
}

// devIno identifies a filesystem object across hard links and symlinks.
type devIno struct {
	dev uint64
	ino uint64
}

// New creates a new Walker with the given options.
// Options are validated and defaults are applied.
func New(opts Options) *Walker {
	_ = opts.Validate()

	w := &Walker{
		opts:     opts,
		log:      logging.Get("walker"),
		warnings: make([]types.Warning, 0),
		results:  make([]types.CandidateFile, 0),
	}
	w.currentPath.Store("")
	return w
}

// Walk traverses the configured roots and returns the collected
// candidates. It blocks until complete or the context is cancelled;
// a cancelled walk returns the context error and no results.
func (w *Walker) Walk(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	roots, err := w.validateRoots()
	if err != nil {
		return nil, err
	}

	if w.opts.FollowSymlinks {
		w.visited = make(map[devIno]struct{})
	}

	conf := fastwalk.Config{
		Follow: w.opts.FollowSymlinks,
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-walkCtx.Done()
		close(done)
	}()

	for _, root := range roots {
		if w.rootHidden(root) {
			w.addWarning(root, errors.New("root is hidden; enable hidden scanning to include it"))
			continue
		}

		w.root = root
		w.currentPath.Store(root)
		w.reportProgressForce()

		walkErr := fastwalk.Walk(&conf, root, w.walkCallback(ctx, done))
		if walkErr != nil && !errors.Is(walkErr, fastwalk.ErrSkipFiles) {
			return nil, walkErr
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	w.walkComplete.Store(true)
	w.reportProgressForce()

	w.log.Debug("walk complete",
		"dirs", w.dirsScanned.Load(),
		"files", w.filesScanned.Load(),
		"candidates", w.candidates.Load(),
		"warnings", len(w.warnings))

	return &Result{
		Candidates:   w.results,
		Warnings:     w.warnings,
		DirsScanned:  w.dirsScanned.Load(),
		FilesScanned: w.filesScanned.Load(),
		Elapsed:      time.Since(startTime),
	}, nil
}

// validateRoots resolves each root to an absolute path and verifies it
// is an existing directory.
func (w *Walker) validateRoots() ([]string, error) {
	roots := make([]string, 0, len(w.opts.Roots))
	for _, r := range w.opts.Roots {
		root, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", r, err)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root %s: %w", root, os.ErrInvalid)
		}

		roots = append(roots, root)
	}
	return roots, nil
}

// rootHidden reports whether a root should be skipped entirely because
// it is itself hidden. Roots the user explicitly names are still
// subject to the hidden policy, matching the child filtering rules.
func (w *Walker) rootHidden(root string) bool {
	if w.opts.IncludeHidden {
		return false
	}
	name := filepath.Base(root)
	if isDotName(name) {
		return true
	}

	info, err := os.Stat(root)
	if err != nil {
		return false
	}
	return hiddenByAttr(info)
}

// walkCallback returns the callback function for fastwalk.Walk.
func (w *Walker) walkCallback(ctx context.Context, done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		// Check for cancellation. Returning the context error aborts
		// the walk.
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		// Handle errors gracefully - record and continue.
		if err != nil {
			w.addWarning(path, err)
			return nil
		}

		// The root itself is never filtered; the caller chose it.
		if path == w.root {
			if d.IsDir() {
				return w.handleDirectory(path)
			}
			return nil
		}

		// Apply the hidden policy.
		if !w.opts.IncludeHidden && w.isHidden(path, d) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		// Apply ignore patterns.
		if w.isIgnored(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return w.handleDirectory(path)
		}

		w.handleFile(path, d)
		return nil
	}
}

// handleDirectory processes a directory entry during the walk. When
// following symlinks it refuses to descend into a directory whose
// (device, inode) identity has been visited before, which bounds the
// traversal in the presence of link cycles.
func (w *Walker) handleDirectory(path string) error {
	w.dirsScanned.Add(1)
	w.currentPath.Store(path)
	w.reportProgress()

	if !w.opts.FollowSymlinks {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		w.addWarning(path, err)
		return fastwalk.SkipDir
	}

	dev, ino, ok := statDevIno(info)
	if !ok {
		return nil
	}

	key := devIno{dev: dev, ino: ino}
	w.visitedMu.Lock()
	_, seen := w.visited[key]
	if !seen {
		w.visited[key] = struct{}{}
	}
	w.visitedMu.Unlock()

	if seen {
		return fastwalk.SkipDir
	}
	return nil
}

// handleFile processes a non-directory entry. Regular files become
// candidates; symlinks are resolved only when following links, and
// only regular targets count.
func (w *Walker) handleFile(path string, d fs.DirEntry) {
	typ := d.Type()

	switch {
	case typ.IsRegular():
		info, err := d.Info()
		if err != nil {
			w.addWarning(path, err)
			return
		}
		w.processRegular(path, info)

	case typ&fs.ModeSymlink != 0 && w.opts.FollowSymlinks:
		info, err := os.Stat(path)
		if err != nil {
			w.addWarning(path, err)
			return
		}
		if info.Mode().IsRegular() {
			w.processRegular(path, info)
		}
	}
}

// processRegular records a regular file, filtering by minimum size.
func (w *Walker) processRegular(path string, info os.FileInfo) {
	size := info.Size()

	w.filesScanned.Add(1)
	w.currentPath.Store(path)
	w.reportProgress()

	if size < w.opts.MinSize {
		return
	}

	dev, ino, _ := statDevIno(info)
	cf := types.CandidateFile{
		Path:    path,
		Size:    size,
		ModTime: info.ModTime(),
		Dev:     dev,
		Ino:     ino,
	}

	w.resultsMu.Lock()
	w.results = append(w.results, cf)
	w.resultsMu.Unlock()

	w.candidates.Add(1)
}

// isHidden reports whether an entry is hidden by name or by platform
// attribute.
func (w *Walker) isHidden(path string, d fs.DirEntry) bool {
	if isDotName(d.Name()) {
		return true
	}

	info, err := d.Info()
	if err != nil {
		return false
	}
	return hiddenByAttr(info)
}

// isDotName reports whether a basename marks an entry as hidden.
func isDotName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// isIgnored checks if a path matches any ignore pattern.
func (w *Walker) isIgnored(path string) bool {
	for _, pattern := range w.opts.Ignore {
		if matchesIgnorePattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchesIgnorePattern checks if a path matches a single ignore pattern.
func matchesIgnorePattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	// Check if the path starts with the pattern (for directories).
	if len(path) >= len(pattern) {
		if path == pattern {
			return true
		}
		if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
			return true
		}
	}

	// Try glob matching against basename.
	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	// Try matching against full path.
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	return false
}

// addWarning adds a warning to the warning list thread-safely.
func (w *Walker) addWarning(path string, err error) {
	w.log.Debug("skipping path", "path", path, "reason", err)

	w.warningsMu.Lock()
	w.warnings = append(w.warnings, types.Warning{
		Path:   path,
		Reason: err.Error(),
	})
	w.warningsMu.Unlock()
}

// reportProgress calls the progress callback if configured.
// Throttles calls to avoid excessive overhead.
func (w *Walker) reportProgress() {
	if w.opts.OnProgress == nil {
		return
	}

	// Throttle progress updates to every 10ms.
	now := time.Now().UnixMilli()
	last := w.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !w.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine updated it.
	}

	w.sendProgress()
}

// reportProgressForce calls the progress callback immediately, bypassing throttle.
// Use for important state changes like walk start/end.
func (w *Walker) reportProgressForce() {
	if w.opts.OnProgress == nil {
		return
	}
	w.lastProgress.Store(time.Now().UnixMilli())
	w.sendProgress()
}

// sendProgress sends the current progress to the callback.
func (w *Walker) sendProgress() {
	currentPath, _ := w.currentPath.Load().(string)

	w.opts.OnProgress(types.Progress{
		Stage:        types.StageWalk,
		DirsScanned:  w.dirsScanned.Load(),
		FilesScanned: w.filesScanned.Load(),
		Candidates:   w.candidates.Load(),
		CurrentPath:  currentPath,
		WalkComplete: w.walkComplete.Load(),
	})
}
