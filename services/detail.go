package services

import "airbnb-area-scraper/models"

// Detail report section names, in workbook order.
const (
	SectionSummary   = "Summary"
	SectionReviews   = "Reviews"
	SectionCalendar  = "Calendar_Pricing"
	SectionAmenities = "Amenities"
	SectionPhotos    = "Photos"
)

// BuildDetailReport reshapes one enriched listing into named report
// sections. The summary is always present; the other sections are built only
// when the corresponding nested field is present and non-empty, following
// the same safe-lookup discipline as Flatten.
func BuildDetailReport(listingID, url string, rec models.Record) *models.DetailReport {
	rep := &models.DetailReport{
		ListingID: listingID,
		URL:       url,
		Title:     rec.Str("title"),
	}

	rep.Sections = append(rep.Sections, summarySection(url, rec))
	for _, sec := range []models.Section{
		reviewsSection(rec),
		calendarSection(rec),
		amenitiesSection(rec),
		photosSection(rec),
	} {
		if !sec.Empty() {
			rep.Sections = append(rep.Sections, sec)
		}
	}
	return rep
}

func summarySection(url string, rec models.Record) models.Section {
	coords := rec.Map("coordinates")
	rating := rec.Map("rating")
	host := rec.Map("host")

	fields := []struct {
		label string
		value any
	}{
		{"Listing URL", url},
		{"Title", rec["title"]},
		{"Description", rec["description"]},
		{"Room Type", rec["room_type"]},
		{"Person Capacity", rec["person_capacity"]},
		{"Is Superhost", rec["is_super_host"]},
		{"Is Guest Favorite", rec["is_guest_favorite"]},
		{"Latitude", coords["latitude"]},
		{"Longitude", coords["longitude"]},
		{"Overall Rating", rating["value"]},
		{"Guest Satisfaction", rating["guest_satisfaction"]},
		{"Accuracy Rating", rating["accuracy"]},
		{"Check-in Rating", rating["checking"]},
		{"Cleanliness Rating", rating["cleanliness"]},
		{"Communication Rating", rating["communication"]},
		{"Location Rating", rating["location"]},
		{"Value Rating", rating["value"]},
		{"Review Count", rating["review_count"]},
		{"Host Name", host["name"]},
		{"Host Joined On", host["joined_on"]},
	}

	// Absent keys and JSON nulls both read back as nil.
	rows := make([][]any, 0, len(fields))
	for _, f := range fields {
		v := f.value
		if v == nil {
			v = "N/A"
		}
		rows = append(rows, []any{f.label, v})
	}

	return models.Section{
		Name:   SectionSummary,
		Header: []string{"Field", "Value"},
		Rows:   rows,
	}
}

func reviewsSection(rec models.Record) models.Section {
	var rows [][]any
	for _, item := range rec.Slice("reviews") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		review := models.Record(m)
		rows = append(rows, []any{
			review["createdAt"],
			review["comments"],
			review["localizedDate"],
			review.Map("reviewer")["firstName"],
			review["response"],
		})
	}
	return models.Section{
		Name:   SectionReviews,
		Header: []string{"Date", "Comment", "Localized Date", "Reviewer Name", "Host Response"},
		Rows:   rows,
	}
}

func calendarSection(rec models.Record) models.Section {
	var rows [][]any
	for _, monthItem := range rec.Slice("calendar") {
		m, ok := monthItem.(map[string]any)
		if !ok {
			continue
		}
		for _, dayItem := range models.Record(m).Slice("days") {
			d, ok := dayItem.(map[string]any)
			if !ok {
				continue
			}
			day := models.Record(d)
			rows = append(rows, []any{
				day["date"],
				day["available"],
				day.Map("price")["nativePrice"],
				day["minNights"],
				day["maxNights"],
			})
		}
	}
	return models.Section{
		Name:   SectionCalendar,
		Header: []string{"Date", "Available", "Price", "Min Nights", "Max Nights"},
		Rows:   rows,
	}
}

func amenitiesSection(rec models.Record) models.Section {
	var rows [][]any
	for _, groupItem := range rec.Slice("amenities") {
		g, ok := groupItem.(map[string]any)
		if !ok {
			continue
		}
		group := models.Record(g)
		for _, item := range group.Slice("values") {
			a, ok := item.(map[string]any)
			if !ok {
				continue
			}
			amenity := models.Record(a)
			rows = append(rows, []any{
				group["title"],
				amenity["title"],
				amenity["available"],
			})
		}
	}
	return models.Section{
		Name:   SectionAmenities,
		Header: []string{"Group", "Amenity", "Is Available"},
		Rows:   rows,
	}
}

func photosSection(rec models.Record) models.Section {
	var rows [][]any
	for _, item := range rec.Slice("images") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		img := models.Record(m)
		rows = append(rows, []any{img["url"], img["title"]})
	}
	return models.Section{
		Name:   SectionPhotos,
		Header: []string{"URL", "Title"},
		Rows:   rows,
	}
}
