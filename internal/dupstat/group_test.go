package dupstat

import (
	"context"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
)

func TestGroupBySize(t *testing.T) {
	testCases := []struct {
		name    string
		records []FileRecord
		want    map[int64][]string
	}{
		{
			name:    "no records",
			records: nil,
			want:    map[int64][]string{},
		},
		{
			name: "only unique sizes",
			records: []FileRecord{
				{Path: "a", Size: 1},
				{Path: "b", Size: 2},
				{Path: "c", Size: 3},
			},
			want: map[int64][]string{},
		},
		{
			name: "singletons dropped, shared sizes kept",
			records: []FileRecord{
				{Path: "a", Size: 5},
				{Path: "b", Size: 5},
				{Path: "c", Size: 7},
				{Path: "d", Size: 9},
				{Path: "e", Size: 9},
				{Path: "f", Size: 9},
			},
			want: map[int64][]string{
				5: {"a", "b"},
				9: {"d", "e", "f"},
			},
		},
		{
			name: "empty files share the zero size",
			records: []FileRecord{
				{Path: "a", Size: 0},
				{Path: "b", Size: 0},
			},
			want: map[int64][]string{
				0: {"a", "b"},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			groups := groupBySize(testCase.records)

			if len(groups) != len(testCase.want) {
				t.Fatalf("wanted %d size groups; found %d", len(testCase.want), len(groups))
			}

			for size, wantPaths := range testCase.want {
				group, ok := groups[size]
				if !ok {
					t.Fatalf("wanted a group for size %d; found none", size)
				}

				paths := make([]string, 0, len(group))
				for _, rec := range group {
					paths = append(paths, rec.Path)

					if rec.Size != size {
						t.Fatalf("wanted every record in the group sized %d; found %d", size, rec.Size)
					}
				}

				slices.Sort(paths)

				if !slices.Equal(paths, wantPaths) {
					t.Fatalf("wanted paths %v for size %d; found %v", wantPaths, size, paths)
				}
			}
		})
	}
}

// sameSizeGroup writes files of identical length and returns their records.
func sameSizeGroup(t *testing.T, dir string, contents map[string]string) []FileRecord {
	t.Helper()

	group := make([]FileRecord, 0, len(contents))

	size := -1

	for name, content := range contents {
		if size >= 0 && size != len(content) {
			t.Fatalf("fixture contents must share a length; found %d and %d", size, len(content))
		}

		size = len(content)

		path := filepath.Join(dir, name)
		writeFile(t, path, content)

		group = append(group, FileRecord{Path: path, Size: int64(len(content))})
	}

	return group
}

func TestHashGroup(t *testing.T) {
	dir := t.TempDir()

	group := sameSizeGroup(t, dir, map[string]string{
		"one.txt":   "same-content",
		"two.txt":   "same-content",
		"other.txt": "other-thing!",
	})

	var failures atomic.Int64

	byHash := hashGroup(context.Background(), NewHasher(0), group, 4, &failures, logger{})

	if len(byHash) != 1 {
		t.Fatalf("wanted 1 digest bucket; found %d", len(byHash))
	}

	for _, files := range byHash {
		paths := make([]string, 0, len(files))
		for _, rec := range files {
			paths = append(paths, rec.Path)
		}

		slices.Sort(paths)

		want := []string{filepath.Join(dir, "one.txt"), filepath.Join(dir, "two.txt")}
		if !slices.Equal(paths, want) {
			t.Fatalf("wanted %v grouped; found %v", want, paths)
		}
	}

	if failures.Load() != 0 {
		t.Fatalf("wanted no failures; found %d", failures.Load())
	}
}

func TestHashGroupAllDistinct(t *testing.T) {
	dir := t.TempDir()

	group := sameSizeGroup(t, dir, map[string]string{
		"a.txt": "content-a",
		"b.txt": "content-b",
		"c.txt": "content-c",
	})

	var failures atomic.Int64

	byHash := hashGroup(context.Background(), NewHasher(0), group, 4, &failures, logger{})

	if len(byHash) != 0 {
		t.Fatalf("wanted no digest buckets for distinct content; found %d", len(byHash))
	}
}

func TestHashGroupExcludesVanishedFile(t *testing.T) {
	dir := t.TempDir()

	group := sameSizeGroup(t, dir, map[string]string{
		"one.txt": "same-content",
		"two.txt": "same-content",
	})

	// A candidate that disappeared between walking and hashing.
	group = append(group, FileRecord{Path: filepath.Join(dir, "gone.txt"), Size: int64(len("same-content"))})

	var failures atomic.Int64

	byHash := hashGroup(context.Background(), NewHasher(0), group, 4, &failures, logger{})

	if len(byHash) != 1 {
		t.Fatalf("wanted the surviving pair grouped; found %d buckets", len(byHash))
	}

	for _, files := range byHash {
		if len(files) != 2 {
			t.Fatalf("wanted 2 files in the group; found %d", len(files))
		}
	}

	if failures.Load() != 1 {
		t.Fatalf("wanted 1 failure; found %d", failures.Load())
	}
}
