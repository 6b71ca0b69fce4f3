package models

// Section is one named block of a detail report: a header row plus data rows.
// Cells follow the same conventions as FlatRow (nil means absent).
type Section struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Empty reports whether the section has no data rows.
func (s Section) Empty() bool {
	return len(s.Rows) == 0
}

// DetailReport is the multi-sheet view of one enriched listing. Sections
// whose source field was absent or empty are left out entirely.
type DetailReport struct {
	ListingID string
	URL       string
	Title     string
	Sections  []Section
}

// CellResult records the outcome of searching one grid cell. A cell either
// found some listings or failed; failures never abort the sweep.
type CellResult struct {
	Box     BoundingBox
	Found   int
	Skipped int
	Err     error
}

// RunReport aggregates per-cell and per-record outcomes of one grid sweep,
// plus summary statistics over the flattened rows.
type RunReport struct {
	Cells          []CellResult
	FailedCells    int
	TotalFound     int
	UniqueListings int
	SkippedRecords int

	PricedListings int
	AveragePrice   float64
	MinPrice       float64
	MaxPrice       float64

	RatedListings  int
	AverageRating  float64
	Superhosts     int
	GuestFavorites int
}
