// Package pipeline coordinates the stages of duplicate detection:
// traversal, size grouping, prefix sampling, and full-content
// verification. Only the final stage decides equality; the earlier
// stages exist to shrink the set of files it must read in full.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/hasher"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/tuner"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/jamesainslie/dupescan/pkg/dupescan/walker"
)

// Pipeline runs a duplicate scan. Each Pipeline instance owns its own
// worker pool and counters, so multiple scans can run independently.
type Pipeline struct {
	opts Options
	alg  hasher.Algorithm
	log  *logging.Logger

	// workers bounds the hashing pools; queueSize buffers the job
	// channels between the feeder and the workers.
	workers   int
	queueSize int

	// Counters for progress reporting. The traversal counters are
	// frozen once the walk finishes; the hashing counters advance
	// concurrently.
	dirsScanned  int64
	filesScanned int64
	candidates   int64
	quickHashed  atomic.Int64
	fullHashed   atomic.Int64
	bytesHashed  atomic.Int64

	currentPath atomic.Value
	stage       atomic.Value

	// lastProgress throttles progress callbacks.
	lastProgress atomic.Int64

	warnings   []types.Warning
	warningsMu sync.Mutex
}

// sizeGroup holds same-size candidates awaiting content comparison.
type sizeGroup struct {
	size  int64
	files []types.CandidateFile
}

// quickKey partitions candidates by size and prefix digest.
type quickKey struct {
	size   int64
	digest uint64
}

// fullKey partitions sampling survivors by verified digest within
// their quick-stage bucket.
type fullKey struct {
	bucket int
	digest string
}

// fullJob carries one candidate through the verification pool.
type fullJob struct {
	bucket int
	cand   types.CandidateFile
}

// New creates a Pipeline for the given options. Option problems are
// reported here, before any filesystem work begins.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	alg, err := hasher.Lookup(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	resources, err := tuner.Detect()
	if err != nil {
		return nil, fmt.Errorf("detecting system resources: %w", err)
	}
	tuned := tuner.CalculateWithOverrides(resources, opts.Workers)

	p := &Pipeline{
		opts:      opts,
		alg:       alg,
		log:       logging.Get("pipeline"),
		workers:   tuned.HashWorkers,
		queueSize: tuned.QueueSize,
	}
	p.currentPath.Store("")
	p.stage.Store(types.StageWalk)
	return p, nil
}

// Workers returns the effective size of the hashing worker pool.
func (p *Pipeline) Workers() int {
	return p.workers
}

// Run executes the scan and returns the assembled report. A cancelled
// context aborts the scan and returns the context error; no partial
// groups are ever returned.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()

	p.log.Info("scan starting",
		"roots", p.opts.Roots,
		"algorithm", p.alg.Name,
		"workers", p.workers,
		"min_size", p.opts.MinSize)

	walkRes, err := p.walk(ctx)
	if err != nil {
		return nil, err
	}

	p.dirsScanned = walkRes.DirsScanned
	p.filesScanned = walkRes.FilesScanned
	p.candidates = int64(len(walkRes.Candidates))
	p.warnings = append(p.warnings, walkRes.Warnings...)

	p.setStage(types.StageGroup)
	sizeGroups := p.groupBySize(walkRes.Candidates)
	p.log.Debug("size grouping complete",
		"candidates", len(walkRes.Candidates),
		"groups", len(sizeGroups))

	quickGroups, err := p.quickStage(ctx, sizeGroups)
	if err != nil {
		return nil, err
	}

	groups, err := p.fullStage(ctx, quickGroups)
	if err != nil {
		return nil, err
	}

	rep := report.Assemble(report.Input{
		Roots:        p.opts.Roots,
		Algorithm:    p.alg.Name,
		Groups:       groups,
		Warnings:     p.warnings,
		FilesScanned: walkRes.FilesScanned,
		DirsScanned:  walkRes.DirsScanned,
		SizeGroups:   len(sizeGroups),
		Elapsed:      time.Since(start),
	})

	p.log.Info("scan complete",
		"duplicate_groups", rep.Stats.DuplicateGroups,
		"duplicate_files", rep.Stats.DuplicateFiles,
		"reclaimable", rep.Stats.ReclaimableBytes,
		"elapsed", rep.Stats.Elapsed)

	return rep, nil
}

// walk runs the traversal stage.
func (p *Pipeline) walk(ctx context.Context) (*walker.Result, error) {
	w := walker.New(walker.Options{
		Roots:          p.opts.Roots,
		MinSize:        p.opts.MinSize,
		IncludeHidden:  p.opts.IncludeHidden,
		FollowSymlinks: p.opts.FollowSymlinks,
		Ignore:         p.opts.Ignore,
		OnProgress:     p.opts.OnProgress,
	})
	return w.Walk(ctx)
}

// groupBySize partitions candidates into same-size groups, dropping
// zero-size files and sizes with fewer than two members. Files of
// different sizes can never be duplicates, so nothing that crosses a
// size boundary is lost here.
func (p *Pipeline) groupBySize(cands []types.CandidateFile) []sizeGroup {
	bySize := make(map[int64][]types.CandidateFile)
	seen := make(map[string]struct{}, len(cands))

	for _, c := range cands {
		// Overlapping roots can surface the same path twice.
		if _, dup := seen[c.Path]; dup {
			continue
		}
		seen[c.Path] = struct{}{}

		// Zero-size files are trivially identical and reclaim nothing;
		// they never report as duplicates.
		if c.Size == 0 {
			continue
		}

		bySize[c.Size] = append(bySize[c.Size], c)
	}

	groups := make([]sizeGroup, 0, len(bySize))
	for size, files := range bySize {
		if p.opts.SkipHardlinks {
			files = collapseHardlinks(files)
		}
		if len(files) < 2 {
			continue
		}
		groups = append(groups, sizeGroup{size: size, files: files})
	}
	return groups
}

// collapseHardlinks keeps one representative per (device, inode)
// identity, choosing the lexicographically smallest path so the result
// does not depend on traversal order. Files with unknown identity
// (zero inode) are never collapsed.
func collapseHardlinks(files []types.CandidateFile) []types.CandidateFile {
	type identity struct{ dev, ino uint64 }

	kept := make(map[identity]int)
	out := make([]types.CandidateFile, 0, len(files))

	for _, f := range files {
		if f.Ino == 0 {
			out = append(out, f)
			continue
		}

		id := identity{f.Dev, f.Ino}
		if i, ok := kept[id]; ok {
			if f.Path < out[i].Path {
				out[i] = f
			}
			continue
		}
		kept[id] = len(out)
		out = append(out, f)
	}
	return out
}

// quickStage computes the prefix digest of every candidate in parallel
// and re-partitions the groups by (size, digest). Buckets that end up
// with fewer than two members are dropped: their files have no
// possible match and never reach full hashing.
func (p *Pipeline) quickStage(ctx context.Context, groups []sizeGroup) ([]sizeGroup, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	total := 0
	for _, g := range groups {
		total += len(g.files)
	}

	p.setStage(types.StageQuick)
	p.log.Debug("sampling stage starting",
		"files", total,
		"sample_bytes", p.opts.QuickSample)

	jobs := make(chan types.CandidateFile, p.queueSize)

	var mu sync.Mutex
	buckets := make(map[quickKey][]types.CandidateFile)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					// Drain the queue so the feeder never blocks.
					for range jobs {
					}
					return
				case c, ok := <-jobs:
					if !ok {
						return
					}
					p.quickOne(c, buckets, &mu)
				}
			}
		}()
	}

feed:
	for _, g := range groups {
		for _, c := range g.files {
			select {
			case jobs <- c:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]sizeGroup, 0, len(buckets))
	for key, files := range buckets {
		if len(files) < 2 {
			continue
		}
		out = append(out, sizeGroup{size: key.size, files: files})
	}
	return out, nil
}

// quickOne digests the leading bytes of one candidate and files it
// into its bucket. Unreadable files are dropped with a warning.
func (p *Pipeline) quickOne(c types.CandidateFile, buckets map[quickKey][]types.CandidateFile, mu *sync.Mutex) {
	digest, err := hasher.Quick(c.Path, p.opts.QuickSample, p.opts.QuickBuffer)
	if err != nil {
		p.addWarning(c.Path, err)
		return
	}

	p.bytesHashed.Add(min(c.Size, p.opts.QuickSample))
	p.quickHashed.Add(1)
	p.currentPath.Store(c.Path)
	p.reportProgress()

	key := quickKey{size: c.Size, digest: digest}
	mu.Lock()
	buckets[key] = append(buckets[key], c)
	mu.Unlock()
}

// fullStage streams every remaining candidate through the configured
// digest in parallel and builds the confirmed duplicate groups. Full
// digests are the sole equality authority: files land in the same
// group only when their complete contents hash identically.
func (p *Pipeline) fullStage(ctx context.Context, groups []sizeGroup) ([]types.DuplicateGroup, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	total := 0
	for _, g := range groups {
		total += len(g.files)
	}

	p.setStage(types.StageFull)
	p.log.Debug("verification stage starting",
		"files", total,
		"algorithm", p.alg.Name)

	jobs := make(chan fullJob, p.queueSize)

	var mu sync.Mutex
	buckets := make(map[fullKey][]string)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					for range jobs {
					}
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					p.fullOne(ctx, j, buckets, &mu)
				}
			}
		}()
	}

feed:
	for i, g := range groups {
		for _, c := range g.files {
			select {
			case jobs <- fullJob{bucket: i, cand: c}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]types.DuplicateGroup, 0, len(buckets))
	for key, paths := range buckets {
		if len(paths) < 2 {
			continue
		}
		out = append(out, types.DuplicateGroup{
			Hash:  key.digest,
			Size:  groups[key.bucket].size,
			Files: paths,
		})
	}
	return out, nil
}

// fullOne streams one candidate through the digest and files the path
// into its bucket. Unreadable files are dropped with a warning; a
// cancellation mid-file is not a file problem and stays silent.
func (p *Pipeline) fullOne(ctx context.Context, j fullJob, buckets map[fullKey][]string, mu *sync.Mutex) {
	digest, err := hasher.Full(ctx, j.cand.Path, p.alg, p.opts.FullBuffer)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.addWarning(j.cand.Path, err)
		return
	}

	p.bytesHashed.Add(j.cand.Size)
	p.fullHashed.Add(1)
	p.currentPath.Store(j.cand.Path)
	p.reportProgress()

	key := fullKey{bucket: j.bucket, digest: digest}
	mu.Lock()
	buckets[key] = append(buckets[key], j.cand.Path)
	mu.Unlock()
}

// addWarning records a non-fatal problem thread-safely.
func (p *Pipeline) addWarning(path string, err error) {
	p.log.Debug("skipping file", "path", path, "reason", err)

	p.warningsMu.Lock()
	p.warnings = append(p.warnings, types.Warning{
		Path:   path,
		Reason: err.Error(),
	})
	p.warningsMu.Unlock()
}

// setStage records the stage transition and reports it immediately.
func (p *Pipeline) setStage(stage types.Stage) {
	p.stage.Store(stage)
	p.reportProgressForce()
}

// reportProgress calls the progress callback if configured.
// Throttles calls to avoid excessive overhead.
func (p *Pipeline) reportProgress() {
	if p.opts.OnProgress == nil {
		return
	}

	// Throttle progress updates to every 10ms.
	now := time.Now().UnixMilli()
	last := p.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !p.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine updated it.
	}

	p.sendProgress()
}

// reportProgressForce calls the progress callback immediately,
// bypassing the throttle. Used for stage transitions.
func (p *Pipeline) reportProgressForce() {
	if p.opts.OnProgress == nil {
		return
	}
	p.lastProgress.Store(time.Now().UnixMilli())
	p.sendProgress()
}

// sendProgress sends the current progress to the callback. The
// traversal counters are frozen by the time the hashing stages run,
// so reading them here is race-free.
func (p *Pipeline) sendProgress() {
	stage, _ := p.stage.Load().(types.Stage)
	currentPath, _ := p.currentPath.Load().(string)

	p.opts.OnProgress(types.Progress{
		Stage:        stage,
		DirsScanned:  p.dirsScanned,
		FilesScanned: p.filesScanned,
		Candidates:   p.candidates,
		QuickHashed:  p.quickHashed.Load(),
		FullHashed:   p.fullHashed.Load(),
		BytesHashed:  p.bytesHashed.Load(),
		CurrentPath:  currentPath,
		WalkComplete: true,
	})
}
