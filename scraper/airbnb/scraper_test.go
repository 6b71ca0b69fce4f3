package airbnb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"airbnb-area-scraper/models"
	"airbnb-area-scraper/utils"
)

// fakeSource serves canned records per cell name and fails named cells.
type fakeSource struct {
	records map[string][]models.Record
	fail    map[string]int // remaining failures per cell
	calls   int
}

func (f *fakeSource) Search(ctx context.Context, box models.BoundingBox, _ SearchFilters) ([]models.Record, error) {
	f.calls++
	if n := f.fail[box.Name]; n > 0 {
		f.fail[box.Name] = n - 1
		return nil, fmt.Errorf("%w: simulated outage", ErrExternalSource)
	}
	return f.records[box.Name], nil
}

func (f *fakeSource) Details(ctx context.Context, listingURL string) (models.Record, error) {
	f.calls++
	if n := f.fail[listingURL]; n > 0 {
		f.fail[listingURL] = n - 1
		return nil, ErrNotFound
	}
	return models.Record{"room_id": json.Number("1"), "title": "ok"}, nil
}

func sweepCells() []models.BoundingBox {
	return []models.BoundingBox{
		{Name: "Area_1_1", SWLat: 41.03, SWLong: 28.97, NELat: 41.035, NELong: 28.975},
		{Name: "Area_1_2", SWLat: 41.03, SWLong: 28.975, NELat: 41.035, NELong: 28.98},
		{Name: "Area_2_1", SWLat: 41.035, SWLong: 28.97, NELat: 41.04, NELong: 28.975},
	}
}

func TestSweepMergesAndDeduplicates(t *testing.T) {
	src := &fakeSource{
		records: map[string][]models.Record{
			"Area_1_1": {
				{"room_id": json.Number("1"), "name": "first"},
				{"room_id": json.Number("2")},
			},
			"Area_1_2": {
				// Overlapping cell returns listing 2 again with fresher data.
				{"room_id": json.Number("2"), "name": "fresher"},
				{"room_id": json.Number("3")},
			},
			"Area_2_1": {
				{"no_id": true},
			},
		},
	}

	scraper := NewGridScraper(src, utils.NewLogger(false), SweepOptions{MaxRetries: 1})
	coll := models.NewCollection()
	results := scraper.Sweep(context.Background(), sweepCells(), SearchFilters{}, coll)

	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	if coll.Len() != 3 {
		t.Errorf("unique listings: got %d, want 3", coll.Len())
	}
	if got := coll["2"].Str("name"); got != "fresher" {
		t.Errorf("duplicate id: got %q, want the later record", got)
	}
	if results[0].Found != 2 || results[1].Found != 2 {
		t.Errorf("found counts: got %d, %d", results[0].Found, results[1].Found)
	}
	if results[2].Found != 1 || results[2].Skipped != 1 {
		t.Errorf("id-less record not counted as skipped: %+v", results[2])
	}
}

func TestSweepIsolatesFailedCells(t *testing.T) {
	src := &fakeSource{
		records: map[string][]models.Record{
			"Area_1_1": {{"room_id": json.Number("1")}},
			"Area_2_1": {{"room_id": json.Number("3")}},
		},
		fail: map[string]int{"Area_1_2": 100},
	}

	scraper := NewGridScraper(src, utils.NewLogger(false), SweepOptions{MaxRetries: 1})
	coll := models.NewCollection()
	results := scraper.Sweep(context.Background(), sweepCells(), SearchFilters{}, coll)

	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3 — one failed cell must not stop the sweep", len(results))
	}
	if results[1].Err == nil {
		t.Error("failed cell carries no error")
	}
	if !errors.Is(results[1].Err, ErrExternalSource) {
		t.Errorf("failed cell error: got %v", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy cells reported errors: %v, %v", results[0].Err, results[2].Err)
	}
	if coll.Len() != 2 {
		t.Errorf("unique listings: got %d, want 2", coll.Len())
	}
}

func TestSweepRetriesTransientFailures(t *testing.T) {
	src := &fakeSource{
		records: map[string][]models.Record{
			"Area_1_1": {{"room_id": json.Number("1")}},
		},
		fail: map[string]int{"Area_1_1": 1},
	}

	cells := sweepCells()[:1]
	scraper := NewGridScraper(src, utils.NewLogger(false), SweepOptions{MaxRetries: 3})
	coll := models.NewCollection()
	results := scraper.Sweep(context.Background(), cells, SearchFilters{}, coll)

	if results[0].Err != nil {
		t.Fatalf("cell failed despite retries: %v", results[0].Err)
	}
	if src.calls != 2 {
		t.Errorf("search calls: got %d, want 2 (fail once, then succeed)", src.calls)
	}
	if coll.Len() != 1 {
		t.Errorf("unique listings: got %d, want 1", coll.Len())
	}
}

func TestSweepStopsOnCanceledContext(t *testing.T) {
	src := &fakeSource{
		records: map[string][]models.Record{
			"Area_1_1": {{"room_id": json.Number("1")}},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := NewGridScraper(src, utils.NewLogger(false), SweepOptions{MaxRetries: 1})
	results := scraper.Sweep(ctx, sweepCells(), SearchFilters{}, models.NewCollection())

	if len(results) >= 3 {
		t.Errorf("sweep did not stop after cancellation: %d results", len(results))
	}
}

func TestFetchDetails(t *testing.T) {
	src := &fakeSource{}
	scraper := NewGridScraper(src, utils.NewLogger(false), SweepOptions{MaxRetries: 1})

	rec, err := scraper.FetchDetails(context.Background(), "https://www.airbnb.com/rooms/1")
	if err != nil {
		t.Fatalf("FetchDetails: %v", err)
	}
	if rec.Str("title") != "ok" {
		t.Errorf("title: got %q", rec.Str("title"))
	}
}
