package models

// FlatColumns is the fixed tabular schema, in output order. Every row carries
// every column regardless of which fields the source record had, so tabular
// writers never see a ragged sheet.
var FlatColumns = []string{
	"room_id",
	"listing_url",
	"category",
	"name",
	"title",
	"rating_value",
	"rating_review_count",
	"is_superhost",
	"is_guest_favorite",
	"latitude",
	"longitude",
	"price_unit_qualifier",
	"price_unit_currency_symbol",
	"price_unit_original_amount",
	"price_unit_discounted_amount",
	"price_breakdown_summary",
	"first_image_url",
}

// FlatRow is one listing reshaped to the fixed column set. Scalar cells keep
// their decoded type (json.Number, string, bool); nil marks an absent value
// and renders as an empty cell.
type FlatRow struct {
	RoomID                any
	ListingURL            string
	Category              any
	Name                  any
	Title                 any
	RatingValue           any
	RatingReviewCount     any
	IsSuperhost           bool
	IsGuestFavorite       bool
	Latitude              any
	Longitude             any
	PriceQualifier        any
	PriceCurrencySymbol   any
	PriceOriginalAmount   any
	PriceDiscountedAmount any
	PriceBreakdownSummary string
	FirstImageURL         any
}

// Cells returns the row's values in FlatColumns order.
func (f *FlatRow) Cells() []any {
	return []any{
		f.RoomID,
		f.ListingURL,
		f.Category,
		f.Name,
		f.Title,
		f.RatingValue,
		f.RatingReviewCount,
		f.IsSuperhost,
		f.IsGuestFavorite,
		f.Latitude,
		f.Longitude,
		f.PriceQualifier,
		f.PriceCurrencySymbol,
		f.PriceOriginalAmount,
		f.PriceDiscountedAmount,
		f.PriceBreakdownSummary,
		f.FirstImageURL,
	}
}
