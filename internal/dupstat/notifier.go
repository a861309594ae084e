package dupstat

import "time"

// Notifier observes pipeline progress. ScanProgress and RootFailed may
// arrive from concurrent workers; the remaining events arrive in stage
// order from the coordinating goroutine.
type Notifier interface {
	// ScanStarted announces the roots and the worker limit for the run.
	ScanStarted(roots []string, workers int)
	// ScanProgress reports the running file and byte tallies of the walk.
	ScanProgress(files, bytes int64)
	// RootFailed reports a root that could not be enumerated at all.
	RootFailed(root string, err error)
	// ScanFinished reports the completed walk.
	ScanFinished(files int, skipped int64, elapsed time.Duration)
	// SizeGroupsFound reports the sizes shared by two or more files and
	// the candidate files they contain.
	SizeGroupsFound(groups, candidates int, elapsed time.Duration)
	// HashingFinished reports the hashing outcome across all groups.
	HashingFinished(hashed int, failures int64, elapsed time.Duration)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) ScanStarted([]string, int)                 {}
func (NopNotifier) ScanProgress(int64, int64)                 {}
func (NopNotifier) RootFailed(string, error)                  {}
func (NopNotifier) ScanFinished(int, int64, time.Duration)    {}
func (NopNotifier) SizeGroupsFound(int, int, time.Duration)   {}
func (NopNotifier) HashingFinished(int, int64, time.Duration) {}
