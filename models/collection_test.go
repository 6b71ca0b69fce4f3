package models

import (
	"encoding/json"
	"testing"
)

func TestMergeLastWriteWins(t *testing.T) {
	c := NewCollection()
	added, skipped := c.Merge([]Record{
		{"room_id": json.Number("1"), "name": "first"},
		{"room_id": json.Number("2"), "name": "second"},
		{"room_id": json.Number("1"), "name": "updated"},
	})

	if added != 3 || skipped != 0 {
		t.Errorf("counts: got added=%d skipped=%d, want 3/0", added, skipped)
	}
	if c.Len() != 2 {
		t.Fatalf("size: got %d, want 2", c.Len())
	}
	if got := c["1"].Str("name"); got != "updated" {
		t.Errorf("duplicate id kept stale record: got %q, want %q", got, "updated")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	c := NewCollection()
	rec := Record{"room_id": json.Number("42"), "name": "same"}

	c.Merge([]Record{rec})
	c.Merge([]Record{rec})

	if c.Len() != 1 {
		t.Errorf("size after re-merge: got %d, want 1", c.Len())
	}
}

func TestMergeSkipsRecordsWithoutID(t *testing.T) {
	c := NewCollection()
	added, skipped := c.Merge([]Record{
		{"name": "no id"},
		{"room_id": ""},
		{"room_id": json.Number("7")},
	})

	if added != 1 || skipped != 2 {
		t.Errorf("counts: got added=%d skipped=%d, want 1/2", added, skipped)
	}
	if c.Len() != 1 {
		t.Errorf("size: got %d, want 1", c.Len())
	}
}

func TestSortedRecordsIsStable(t *testing.T) {
	c := NewCollection()
	c.Merge([]Record{
		{"room_id": json.Number("30")},
		{"room_id": json.Number("10")},
		{"room_id": json.Number("20")},
	})

	recs := c.SortedRecords()
	var got []string
	for _, r := range recs {
		id, _ := r.RoomID()
		got = append(got, id)
	}

	want := []string{"10", "20", "30"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: got %v, want %v", got, want)
		}
	}
}
