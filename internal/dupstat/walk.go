package dupstat

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sourcegraph/conc/pool"
)

// recordBuffer smooths rate differences between walkers and the collector.
const recordBuffer = 256

// FileRecord describes a single regular file discovered during a scan.
type FileRecord struct {
	// Path is the location of the file as walked, root prefix included.
	Path string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file's last modification time.
	ModTime time.Time
}

// scanCounters accumulates walk statistics. Walker goroutines touch only
// the atomic fields, so the progress reporter can read them live.
type scanCounters struct {
	files   atomic.Int64
	bytes   atomic.Int64
	skipped atomic.Int64
}

// walker emits a FileRecord for every regular file under the roots it is
// given, applying the size floor and exclusion patterns along the way.
type walker struct {
	records  chan<- FileRecord
	counters *scanCounters
	excludes []*regexp.Regexp
	minSize  int64
	workers  int
	notify   Notifier
	log      logger
}

// matchExclude checks if path matches any exclusion regex.
func matchExclude(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// visit returns the callback shared by both traversal modes. Entries
// that cannot be read are counted and skipped; an error on the root
// itself is reported and yields zero records for that root. Only
// cancellation makes the callback return a non-sentinel error.
//
//nolint:varnamelen // d is standard for DirEntry
func (w *walker) visit(ctx context.Context, root string) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if err != nil {
			w.counters.skipped.Add(1)

			if path == root {
				w.notify.RootFailed(root, err)
			} else {
				w.log.printf("[debug]: error accessing path %s: %v\n", path, err)
			}

			return nil // Skip unreadable entries, fail the run never
		}

		// Check regex exclusion patterns
		if matchedPattern := matchExclude(path, w.excludes); matchedPattern != nil {
			if d.IsDir() {
				w.log.printf("[debug]: excluding directory: %s\n", path)
				w.log.printf("	 matched regex: %s\n", matchedPattern.String())

				return filepath.SkipDir
			}

			w.log.printf("[debug]: excluding file: %s\n", path)
			w.log.printf("	 matched regex: %s\n", matchedPattern.String())

			return nil
		}

		if d.IsDir() {
			return nil
		}

		// Symlinks, sockets, devices and the like are never candidates
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.counters.skipped.Add(1)
			w.log.printf("[debug]: error reading info for %s: %v\n", path, err)

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		if info.Size() < w.minSize {
			return nil
		}

		w.counters.files.Add(1)
		w.counters.bytes.Add(info.Size())

		w.records <- FileRecord{Path: path, Size: info.Size(), ModTime: info.ModTime()}

		return nil
	}
}

// walkRoot descends root sequentially, depth first.
func (w *walker) walkRoot(ctx context.Context, root string) error {
	return filepath.WalkDir(root, w.visit(ctx, root))
}

// walkRootFast descends root with fastwalk's parallel traversal. Used
// when single deep trees, rather than the number of roots, dominate the
// scan; the walker's own pool then carries the concurrency.
func (w *walker) walkRootFast(ctx context.Context, root string) error {
	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	visit := w.visit(ctx, root)

	err := fastwalk.Walk(conf, root, visit)

	// Unlike filepath.WalkDir, fastwalk reports a root it cannot stat
	// through its return value without invoking the callback. Route the
	// error through visit so both traversals demote a failed root the
	// same way.
	if err != nil && !errors.Is(err, context.Canceled) {
		return visit(root, nil, err)
	}

	return err
}

// partitionRoots distributes roots over at most workers contiguous
// chunks. With spare capacity every root gets its own chunk; otherwise
// the roots are split into workers near-even runs, each walked
// sequentially by a single goroutine, so the pool never oversubscribes.
func partitionRoots(roots []string, workers int) [][]string {
	if workers < 1 {
		workers = 1
	}

	if len(roots) <= workers {
		chunks := make([][]string, 0, len(roots))
		for _, root := range roots {
			chunks = append(chunks, []string{root})
		}

		return chunks
	}

	chunks := make([][]string, 0, workers)
	base := len(roots) / workers
	extra := len(roots) % workers

	start := 0
	for i := 0; i < workers; i++ {
		end := start + base
		if i < extra {
			end++
		}

		chunks = append(chunks, roots[start:end])
		start = end
	}

	return chunks
}

// scan fans walkers out across the roots and merges their records
// through a single collector goroutine. The records channel is the only
// hand-off point; ordering across walkers is deliberately unspecified.
func scan(ctx context.Context, opts Options, excludes []*regexp.Regexp, counters *scanCounters, notify Notifier, log logger) ([]FileRecord, error) {
	records := make(chan FileRecord, recordBuffer)

	var files []FileRecord

	collected := make(chan struct{})

	go func() {
		defer close(collected)

		for rec := range records {
			files = append(files, rec)
		}
	}()

	w := &walker{
		records:  records,
		counters: counters,
		excludes: excludes,
		minSize:  opts.MinSize,
		workers:  opts.Workers,
		notify:   notify,
		log:      log,
	}

	chunks := partitionRoots(opts.Roots, opts.Workers)
	errs := make(chan error, len(chunks)+1)

	switch {
	case opts.FastWalk:
		// fastwalk brings its own worker pool, so roots are walked one
		// after another instead of being fanned out a second time.
		for _, root := range opts.Roots {
			if err := w.walkRootFast(ctx, root); err != nil {
				errs <- err

				break
			}
		}
	case len(chunks) > 0:
		p := pool.New().WithMaxGoroutines(len(chunks))

		for _, chunk := range chunks {
			p.Go(func() {
				for _, root := range chunk {
					if err := w.walkRoot(ctx, root); err != nil {
						errs <- err

						return
					}
				}
			})
		}

		p.Wait()
	}

	close(records)
	<-collected
	close(errs)

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
