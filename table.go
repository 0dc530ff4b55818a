package ankitab

import "sort"

// tableFormat records which derived transformations have been applied to
// a working table. Merges are rejected when their bit is already set, and
// writing back a still-merged table raises a (forceable) warning, so
// derived columns can never drift out of sync with natives unnoticed.
type tableFormat uint8

const (
	formatNative       tableFormat = 0
	formatFieldsMerged tableFormat = 1 << 0
	formatStatsMerged  tableFormat = 1 << 1
)

func (f tableFormat) has(bit tableFormat) bool { return f&bit != 0 }

func (f tableFormat) String() string {
	switch {
	case f.has(formatFieldsMerged) && f.has(formatStatsMerged):
		return "fields+stats merged"
	case f.has(formatFieldsMerged):
		return "fields merged"
	case f.has(formatStatsMerged):
		return "stats merged"
	}
	return "native"
}

// Changes is the row-level diff of a working table against the session
// snapshot it was built from. A row whose ID was deleted and re-added
// within one session counts as modified, not as delete+add.
type Changes struct {
	Added    []int64
	Modified []int64
	Deleted  []int64
}

// Empty reports whether no row changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// diffRows compares working rows against the original snapshot rows in
// their normalized raw form. Only native columns take part: both sides
// are projected through the same normalization before comparing.
func diffRows[R comparable](working, original map[int64]R) Changes {
	var ch Changes
	for id, row := range working {
		orig, ok := original[id]
		if !ok {
			ch.Added = append(ch.Added, id)
			continue
		}
		if row != orig {
			ch.Modified = append(ch.Modified, id)
		}
	}
	for id := range original {
		if _, ok := working[id]; !ok {
			ch.Deleted = append(ch.Deleted, id)
		}
	}
	sortIDs(ch.Added)
	sortIDs(ch.Modified)
	sortIDs(ch.Deleted)
	return ch
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// countIDs tallies how often each identifier occurs in a table's rows;
// validation uses it to find duplicates even when rows were edited
// behind the index.
func countIDs(ids []int64) map[int64]int {
	counts := make(map[int64]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return counts
}
