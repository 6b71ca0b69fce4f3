package main

import (
	"flag"
	"os"

	"airbnb-area-scraper/config"
	"airbnb-area-scraper/services"
	"airbnb-area-scraper/storage"
	"airbnb-area-scraper/utils"
)

// convert re-flattens an archived raw snapshot into tabular reports without
// touching the external source.
func main() {
	inputPath := flag.String("input", "", "path to a raw JSON snapshot")
	xlsxPath := flag.String("output", "./output/listings_analysis.xlsx", "output workbook path")
	csvPath := flag.String("csv", "", "optional CSV output path")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.Verbose)

	if *inputPath == "" {
		logger.Error("Usage: convert -input <snapshot.json> [-output report.xlsx] [-csv report.csv]")
		os.Exit(1)
	}

	records, malformed, err := storage.LoadRaw(*inputPath)
	if err != nil {
		logger.Error("Failed to load snapshot: %v", err)
		os.Exit(1)
	}
	if malformed > 0 {
		logger.Warn("Snapshot held %d entries that are not mappings — skipped", malformed)
	}
	logger.Info("Loaded %d listings from %s", len(records), *inputPath)

	flattener := services.NewFlattener(cfg.MarketplaceURL)
	rows, skipped := flattener.FlattenAll(records)
	if skipped > 0 {
		logger.Warn("Skipped %d malformed records during flattening", skipped)
	}

	if err := storage.NewXLSXWriter(*xlsxPath).WriteRows(rows); err != nil {
		logger.Error("XLSX export failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Flat workbook saved to %s (%d rows)", *xlsxPath, len(rows))

	if *csvPath != "" {
		csvWriter, err := storage.NewCSVWriter(*csvPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
			os.Exit(1)
		}
		defer csvWriter.Close()

		if err := csvWriter.WriteRows(rows); err != nil {
			logger.Error("CSV export failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Flat CSV saved to %s", *csvPath)
	}
}
