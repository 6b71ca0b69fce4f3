package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"airbnb-area-scraper/config"
	"airbnb-area-scraper/models"
	"airbnb-area-scraper/scraper/airbnb"
	"airbnb-area-scraper/services"
	"airbnb-area-scraper/storage"
	"airbnb-area-scraper/utils"
)

func main() {
	planPath := flag.String("plan", "area.yaml", "path to the area plan file")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.Verbose)

	logger.Info("=== Area search starting ===")

	plan, err := config.LoadAreaPlan(*planPath)
	if err != nil {
		logger.Error("Failed to load area plan: %v", err)
		os.Exit(1)
	}

	overrides := make(map[services.CellIndex]services.SubGrid, len(plan.Refine))
	for _, r := range plan.Refine {
		overrides[services.CellIndex{Row: r.Row - 1, Col: r.Col - 1}] =
			services.SubGrid{Rows: r.Rows, Cols: r.Cols}
	}

	cells, err := services.BuildSearchGrid(plan.Area, plan.Grid.Rows, plan.Grid.Cols, overrides)
	if err != nil {
		logger.Error("Failed to build search grid: %v", err)
		os.Exit(1)
	}

	logger.Info("Config — area: %s | grid: %dx%d (+%d refinements) → %d cells | delay: %dms",
		plan.Area.Name, plan.Grid.Rows, plan.Grid.Cols, len(plan.Refine), len(cells), cfg.CellDelayMs)

	client := airbnb.NewClient(cfg.ScraperAPIBase, cfg.ScraperAPIKey, cfg.ScraperRPS)
	gridScraper := airbnb.NewGridScraper(client, logger, airbnb.SweepOptions{
		Delay:      time.Duration(cfg.CellDelayMs) * time.Millisecond,
		MaxRetries: cfg.MaxRetries,
	})

	filters := airbnb.SearchFilters{
		CheckIn:   plan.Filters.CheckIn,
		CheckOut:  plan.Filters.CheckOut,
		Currency:  plan.Filters.Currency,
		Language:  plan.Filters.Language,
		PriceMin:  plan.Filters.PriceMin,
		PriceMax:  plan.Filters.PriceMax,
		PlaceType: plan.Filters.PlaceType,
		Amenities: plan.Filters.Amenities,
		ZoomValue: plan.Filters.Zoom,
	}

	collection := models.NewCollection()
	cellResults := gridScraper.Sweep(context.Background(), cells, filters, collection)

	if collection.Len() == 0 {
		logger.Error("No listings found in any cell. Exiting.")
		os.Exit(1)
	}

	logger.Info("Sweep complete — %d unique listings across %d cells", collection.Len(), len(cells))
	records := collection.SortedRecords()

	if err := storage.NewJSONWriter(cfg.RawJSONPath).WriteRaw(records); err != nil {
		logger.Error("Raw JSON export failed: %v", err)
	} else {
		logger.Info("Raw snapshot saved to %s", cfg.RawJSONPath)
	}

	flattener := services.NewFlattener(cfg.MarketplaceURL)

	urls := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := rec.RoomID(); ok {
			urls = append(urls, flattener.ListingURL(id))
		}
	}
	if err := storage.WriteURLList(cfg.URLListPath, urls); err != nil {
		logger.Error("URL list export failed: %v", err)
	} else {
		logger.Info("%d listing URLs saved to %s", len(urls), cfg.URLListPath)
	}

	rows, skipped := flattener.FlattenAll(records)
	if skipped > 0 {
		logger.Warn("Skipped %d malformed records during flattening", skipped)
	}

	writeTables(cfg, logger, rows)

	reporter := services.NewReportService(logger)
	reporter.Print(reporter.Generate(cellResults, collection.Len(), rows))

	fmt.Printf("  Done. Flat tables → %s, %s | Raw snapshot → %s\n\n",
		cfg.CSVOutputPath, cfg.XLSXOutputPath, cfg.RawJSONPath)
}

// writeTables sends the flattened rows to every configured tabular sink.
// Sinks fail independently.
func writeTables(cfg *config.Config, logger *utils.Logger, rows []models.FlatRow) {
	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		if err := csvWriter.WriteRows(rows); err != nil {
			logger.Error("CSV export failed: %v", err)
		} else {
			logger.Info("Flat CSV saved to %s", cfg.CSVOutputPath)
		}
		_ = csvWriter.Close()
	}

	if err := storage.NewXLSXWriter(cfg.XLSXOutputPath).WriteRows(rows); err != nil {
		logger.Error("XLSX export failed: %v", err)
	} else {
		logger.Info("Flat workbook saved to %s", cfg.XLSXOutputPath)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			return
		}
		defer pgWriter.Close()

		if err := pgWriter.WriteRows(rows); err != nil {
			logger.Error("PostgreSQL export failed: %v", err)
		} else {
			logger.Info("Rows upserted into PostgreSQL (table: listings)")
		}
	}
}
