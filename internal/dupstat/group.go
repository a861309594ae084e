package dupstat

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
)

// groupBySize partitions records by exact byte size and keeps only sizes
// shared by two or more files. A pure cardinality filter: no content is
// read, a file with a unique size cannot have a duplicate.
func groupBySize(records []FileRecord) map[int64][]FileRecord {
	bySize := make(map[int64][]FileRecord)

	for _, rec := range records {
		bySize[rec.Size] = append(bySize[rec.Size], rec)
	}

	for size, group := range bySize {
		if len(group) < 2 {
			delete(bySize, size)
		}
	}

	return bySize
}

// hashResult pairs a record with the outcome of hashing it. A non-nil
// err means the file could not be read and is excluded from grouping.
type hashResult struct {
	rec FileRecord
	sum string
	err error
}

// hashGroup hashes one same-size candidate group concurrently and
// re-partitions it by digest, discarding digests seen only once. Results
// are buffered to the group size so workers never block on the merge,
// which runs single-threaded after the pool drains. Every record in the
// returned map carries the group's common byte size.
func hashGroup(ctx context.Context, hasher *Hasher, group []FileRecord, workers int, failures *atomic.Int64, log logger) map[string][]FileRecord {
	if workers > len(group) {
		workers = len(group)
	}

	if workers < 1 {
		workers = 1
	}

	results := make(chan hashResult, len(group))

	p := pool.New().WithMaxGoroutines(workers)

	for _, rec := range group {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results <- hashResult{rec: rec, err: err}

				return
			}

			sum, err := hasher.Sum(rec.Path)
			results <- hashResult{rec: rec, sum: sum, err: err}
		})
	}

	p.Wait()
	close(results)

	byHash := make(map[string][]FileRecord)

	for res := range results {
		if res.err != nil {
			failures.Add(1)
			log.printf("[debug]: %v\n", res.err)

			continue
		}

		byHash[res.sum] = append(byHash[res.sum], res.rec)
	}

	for sum, files := range byHash {
		if len(files) < 2 {
			delete(byHash, sum)
		}
	}

	return byHash
}
