package dupstat

import (
	"sort"
	"time"
)

// DuplicateGroup is a set of files sharing identical size and content
// digest, treated as byte-identical copies of one another.
type DuplicateGroup struct {
	// Paths are the member files, sorted lexicographically.
	Paths []string `json:"paths"`
	// Size is the size of each member in bytes.
	Size int64 `json:"size"`
	// Count is the number of member files.
	Count int `json:"count"`
	// WastedSize is the bytes occupied by the redundant copies: every
	// member except the one that would be kept.
	WastedSize int64 `json:"wasted_size"`
}

// Report holds the outcome of a detection run.
type Report struct {
	// Groups contains every duplicate group, largest wasted space first.
	Groups []DuplicateGroup `json:"groups"`
	// GroupCount is the number of duplicate groups.
	GroupCount int `json:"group_count"`
	// TotalWastedSize is the wasted bytes summed over all groups.
	TotalWastedSize int64 `json:"total_wasted_size"`
	// MostDuplicated is the group with the highest copy count, nil when
	// no duplicates were found.
	MostDuplicated *DuplicateGroup `json:"most_duplicated"`
	// LargestWaste is the group wasting the most bytes, nil when no
	// duplicates were found.
	LargestWaste *DuplicateGroup `json:"largest_waste"`
	// FilesScanned is the number of files that survived the walk filters.
	FilesScanned int `json:"files_scanned"`
	// SizeGroupCount is the number of sizes shared by two or more files.
	SizeGroupCount int `json:"size_group_count"`
	// SkippedEntries is the number of unreadable directory entries.
	SkippedEntries int64 `json:"skipped_entries"`
	// HashFailures is the number of candidates that could not be hashed.
	HashFailures int64 `json:"hash_failures"`
	// ScanElapsed is the time spent walking the roots.
	ScanElapsed time.Duration `json:"scan_elapsed"`
	// GroupElapsed is the time spent grouping by size.
	GroupElapsed time.Duration `json:"group_elapsed"`
	// HashElapsed is the time spent hashing candidates.
	HashElapsed time.Duration `json:"hash_elapsed"`
	// Elapsed is the total time taken for the run.
	Elapsed time.Duration `json:"elapsed"`
}

// newDuplicateGroup builds a group over paths of size-byte files. Paths
// are sorted so a group renders identically from run to run.
func newDuplicateGroup(paths []string, size int64) DuplicateGroup {
	sort.Strings(paths)

	return DuplicateGroup{
		Paths:      paths,
		Size:       size,
		Count:      len(paths),
		WastedSize: int64(len(paths)-1) * size,
	}
}

// pick returns a copy of the best group under better, preferring the
// lexicographically smallest leading path between peers so repeated runs
// select the same group. Returns nil for an empty slice.
func pick(groups []DuplicateGroup, better func(l, r *DuplicateGroup) bool) *DuplicateGroup {
	if len(groups) == 0 {
		return nil
	}

	best := 0

	for i := 1; i < len(groups); i++ {
		switch {
		case better(&groups[i], &groups[best]):
			best = i
		case better(&groups[best], &groups[i]):
			// keep best
		case groups[i].Paths[0] < groups[best].Paths[0]:
			best = i
		}
	}

	picked := groups[best]

	return &picked
}

// buildReport ranks groups by descending wasted space and fills in the
// aggregate statistics over the complete set. Ties in the ordering and
// in the headline selections break towards the smallest leading path.
func buildReport(groups []DuplicateGroup) *Report {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedSize != groups[j].WastedSize {
			return groups[i].WastedSize > groups[j].WastedSize
		}

		return groups[i].Paths[0] < groups[j].Paths[0]
	})

	report := &Report{
		Groups:     groups,
		GroupCount: len(groups),
	}

	for i := range groups {
		report.TotalWastedSize += groups[i].WastedSize
	}

	report.MostDuplicated = pick(groups, func(l, r *DuplicateGroup) bool {
		return l.Count > r.Count
	})

	report.LargestWaste = pick(groups, func(l, r *DuplicateGroup) bool {
		return l.WastedSize > r.WastedSize
	})

	return report
}
