package services

import (
	"fmt"
	"strings"

	"airbnb-area-scraper/models"
	"airbnb-area-scraper/utils"
)

// ReportService turns the per-cell results of a sweep and the flattened rows
// into an aggregated run report, so callers can see what was found and what
// was skipped without scraping console output.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate aggregates cell outcomes and row statistics into a RunReport.
func (s *ReportService) Generate(cells []models.CellResult, unique int, rows []models.FlatRow) *models.RunReport {
	report := &models.RunReport{
		Cells:          cells,
		UniqueListings: unique,
	}

	for _, c := range cells {
		if c.Err != nil {
			report.FailedCells++
			continue
		}
		report.TotalFound += c.Found
		report.SkippedRecords += c.Skipped
	}

	var priceTotal, ratingTotal float64
	for i := range rows {
		row := &rows[i]
		if row.IsSuperhost {
			report.Superhosts++
		}
		if row.IsGuestFavorite {
			report.GuestFavorites++
		}

		if price, ok := models.AsFloat(row.PriceOriginalAmount); ok && price > 0 {
			if report.PricedListings == 0 || price < report.MinPrice {
				report.MinPrice = price
			}
			if price > report.MaxPrice {
				report.MaxPrice = price
			}
			priceTotal += price
			report.PricedListings++
		}

		if rating, ok := models.AsFloat(row.RatingValue); ok && rating > 0 {
			ratingTotal += rating
			report.RatedListings++
		}
	}

	if report.PricedListings > 0 {
		report.AveragePrice = round2(priceTotal / float64(report.PricedListings))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}
	if report.RatedListings > 0 {
		report.AverageRating = round2(ratingTotal / float64(report.RatedListings))
	}

	return report
}

// Print renders the run report to the terminal.
func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  AREA SEARCH RUN REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Cells searched     : \033[1m%d\033[0m (%d failed)\n", len(r.Cells), r.FailedCells)
	fmt.Printf("  Listings returned  : \033[1m%d\033[0m\n", r.TotalFound)
	fmt.Printf("  Unique listings    : \033[1m%d\033[0m\n", r.UniqueListings)
	if r.SkippedRecords > 0 {
		fmt.Printf("  Records w/o id     : \033[1m%d\033[0m (skipped)\n", r.SkippedRecords)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Grid Cells\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, c := range r.Cells {
		if c.Err != nil {
			fmt.Printf("  %-28s \033[1;31m✗ %v\033[0m\n", truncate(c.Box.Name, 26), c.Err)
			continue
		}
		bar := strings.Repeat("█", barLen(c.Found))
		fmt.Printf("  %-28s %s (%d)\n", truncate(c.Box.Name, 26), bar, c.Found)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Printf("  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%.2f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Quality\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.RatedListings > 0 {
		fmt.Printf("  Average rating  : \033[1;32m%.2f ★\033[0m (%d rated)\n", r.AverageRating, r.RatedListings)
	} else {
		fmt.Printf("  No rated listings\n")
	}
	fmt.Printf("  Superhosts      : %d\n", r.Superhosts)
	fmt.Printf("  Guest favorites : %d\n", r.GuestFavorites)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// barLen caps the per-cell histogram bar so dense cells stay on one line.
func barLen(n int) int {
	if n > 40 {
		return 40
	}
	return n
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max characters. Cell names come from the area plan
// and may hold multi-byte runes, so cutting on bytes could mangle them.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
