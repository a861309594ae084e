package dupstat

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// Options configures a detection run and CLI behavior.
type Options struct {
	// Roots are the directories to scan for duplicates.
	Roots []string
	// Output is the report file path.
	Output string
	// Workers caps the walker pool and the hashing pool (0 = NumCPU).
	Workers int
	// ChunkSize is the hash read size in bytes (0 = DefaultChunkSize).
	ChunkSize int64
	// MinSize is the minimum file size in bytes.
	MinSize int64
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// FastWalk switches per-root traversal to a parallel walker.
	FastWalk bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// JSON indicates whether to print the report as JSON.
	JSON bool
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// startProgressReporter invokes notify.ScanProgress on each tick until ctx is done.
func startProgressReporter(ctx context.Context, counters *scanCounters, notify Notifier, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				notify.ScanProgress(counters.files.Load(), counters.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run performs duplicate detection over opts.Roots and returns the
// aggregated report. The pipeline runs in strict stages: a concurrent
// walk of all roots, size grouping, concurrent hashing of the same-size
// candidates, then aggregation. Each stage starts only after the
// previous one has fully finished.
//
// Per-entry and per-file failures never abort the run; they surface as
// counters on the returned Report. Run returns an error only for an
// invalid exclusion pattern or cancellation of ctx. notify may be nil.
func Run(ctx context.Context, opts Options, notify Notifier) (*Report, error) {
	if notify == nil {
		notify = NopNotifier{}
	}

	log := logger{enabled: opts.Debug}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	excludeRegexes := make([]*regexp.Regexp, 0, len(opts.Excludes))

	for _, p := range opts.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	log.printf("[debug]: roots:\n")

	for _, root := range opts.Roots {
		log.printf("[debug]:   - %s\n", root)
	}

	log.printf("[debug]: exclude regexes:\n")

	for _, re := range excludeRegexes {
		log.printf("[debug]:   - %s\n", re.String())
	}

	start := time.Now()

	// Create child context to ensure progress reporter cleanup
	scanCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()

	counters := &scanCounters{}

	notify.ScanStarted(opts.Roots, opts.Workers)
	startProgressReporter(scanCtx, counters, notify, opts.ProgressInterval)

	records, err := scan(ctx, opts, excludeRegexes, counters, notify, log)
	if err != nil {
		return nil, err
	}

	stopProgress()

	scanElapsed := time.Since(start)
	notify.ScanFinished(len(records), counters.skipped.Load(), scanElapsed)

	groupStart := time.Now()
	bySize := groupBySize(records)

	candidates := 0
	for _, group := range bySize {
		candidates += len(group)
	}

	groupElapsed := time.Since(groupStart)
	notify.SizeGroupsFound(len(bySize), candidates, groupElapsed)

	hashStart := time.Now()
	hasher := NewHasher(opts.ChunkSize)

	var hashFailures atomic.Int64

	groups := make([]DuplicateGroup, 0)

	for size, group := range bySize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for sum, files := range hashGroup(ctx, hasher, group, opts.Workers, &hashFailures, log) {
			paths := make([]string, len(files))
			for i := range files {
				paths[i] = files[i].Path
			}

			log.printf("[debug]: %d copies of %s (%d bytes)\n", len(files), sum, size)

			groups = append(groups, newDuplicateGroup(paths, size))
		}
	}

	// Cancellation that lands while the last group hashes is recorded by
	// the workers as per-file failures; it still aborts the run here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hashElapsed := time.Since(hashStart)
	notify.HashingFinished(candidates, hashFailures.Load(), hashElapsed)

	report := buildReport(groups)
	report.FilesScanned = len(records)
	report.SizeGroupCount = len(bySize)
	report.SkippedEntries = counters.skipped.Load()
	report.HashFailures = hashFailures.Load()
	report.ScanElapsed = scanElapsed
	report.GroupElapsed = groupElapsed
	report.HashElapsed = hashElapsed
	report.Elapsed = time.Since(start)

	return report, nil
}
