package services

import (
	"errors"
	"fmt"
	"strings"

	"airbnb-area-scraper/models"
)

// Badge tags the marketplace attaches to listings.
const (
	BadgeSuperhost     = "SUPERHOST"
	BadgeGuestFavorite = "GUEST_FAVORITE"
)

// absentURL is the sentinel written when a listing has no identifier to
// build a URL from.
const absentURL = "N/A"

// ErrInvalidRecord flags input that is not a mapping at all. Missing fields
// are never an error; they flatten to absent cells.
var ErrInvalidRecord = errors.New("invalid record")

// Flattener reshapes nested listing records into fixed-schema rows.
type Flattener struct {
	baseURL string
}

// NewFlattener creates a Flattener. baseURL is the marketplace root used to
// derive listing URLs.
func NewFlattener(baseURL string) *Flattener {
	return &Flattener{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Flatten derives one FlatRow from a listing record. It is total over any
// mapping, including an empty one: absent fields become absent cells and
// every row carries the full column set.
func (f *Flattener) Flatten(rec models.Record) (models.FlatRow, error) {
	if rec == nil {
		return models.FlatRow{}, fmt.Errorf("%w: not a mapping", ErrInvalidRecord)
	}

	price := rec.Map("price")
	unit := price.Map("unit")
	rating := rec.Map("rating")
	coords := rec.Map("coordinates")

	row := models.FlatRow{
		Category:          rec["category"],
		Name:              rec["name"],
		Title:             rec["title"],
		RatingValue:       rating["value"],
		RatingReviewCount: rating["reviewCount"],
		IsSuperhost:       rec.HasBadge(BadgeSuperhost),
		IsGuestFavorite:   rec.HasBadge(BadgeGuestFavorite),
		Latitude:          coords["latitude"],
		Longitude:         coords["longitude"],
		PriceQualifier:    unit["qualifier"],
		// the upstream payload misspells this key; read it as served
		PriceCurrencySymbol:   unit["curency_symbol"],
		PriceOriginalAmount:   unit["amount"],
		PriceDiscountedAmount: unit["discount"],
	}

	if id, ok := rec.RoomID(); ok {
		row.RoomID = rec["room_id"]
		row.ListingURL = f.ListingURL(id)
	} else {
		row.ListingURL = absentURL
	}

	if breakdown := price.Slice("break_down"); len(breakdown) > 0 {
		descs := make([]string, 0, len(breakdown))
		for _, item := range breakdown {
			m, _ := item.(map[string]any)
			descs = append(descs, models.Record(m).Str("description"))
		}
		row.PriceBreakdownSummary = strings.Join(descs, " | ")
	}

	if images := rec.Slice("images"); len(images) > 0 {
		if m, ok := images[0].(map[string]any); ok {
			row.FirstImageURL = m["url"]
		}
	}

	return row, nil
}

// FlattenAll flattens every record, skipping malformed ones and reporting
// how many were dropped.
func (f *Flattener) FlattenAll(records []models.Record) (rows []models.FlatRow, skipped int) {
	rows = make([]models.FlatRow, 0, len(records))
	for _, rec := range records {
		row, err := f.Flatten(rec)
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// ListingURL builds the marketplace URL for a room id.
func (f *Flattener) ListingURL(id string) string {
	return f.baseURL + "/rooms/" + id
}
