package models

import "sort"

// Collection de-duplicates listings by room id. Inserting an id that is
// already present replaces the prior record, so overlapping grid cells
// converge to one canonical entry per listing — last write wins, no
// field-level merging.
type Collection map[string]Record

// NewCollection returns an empty collection.
func NewCollection() Collection {
	return make(Collection)
}

// Merge inserts records keyed by their room id. Records without an
// identifier are skipped, not fatal; the counts let callers report both.
func (c Collection) Merge(records []Record) (added, skipped int) {
	for _, rec := range records {
		id, ok := rec.RoomID()
		if !ok {
			skipped++
			continue
		}
		c[id] = rec
		added++
	}
	return added, skipped
}

// Len returns the number of unique listings held.
func (c Collection) Len() int {
	return len(c)
}

// Records returns the de-duplicated listings. Iteration order is
// unspecified; nothing downstream may depend on it for correctness.
func (c Collection) Records() []Record {
	out := make([]Record, 0, len(c))
	for _, rec := range c {
		out = append(out, rec)
	}
	return out
}

// SortedRecords returns the listings ordered by room id, for stable file
// diffs across runs.
func (c Collection) SortedRecords() []Record {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, c[id])
	}
	return out
}
