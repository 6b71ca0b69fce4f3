package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"airbnb-area-scraper/config"
	"airbnb-area-scraper/scraper/airbnb"
	"airbnb-area-scraper/services"
	"airbnb-area-scraper/storage"
	"airbnb-area-scraper/utils"
)

var roomIDRe = regexp.MustCompile(`/rooms/(\d+)`)

func main() {
	filePath := flag.String("file", "", "path to a text file of listing URLs, one per line")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.Verbose)

	logger.Info("=== Bulk detail scrape starting ===")

	if *filePath == "" {
		logger.Error("Usage: bulkdetails -file <urls.txt>")
		os.Exit(1)
	}

	urls, err := storage.LoadURLList(*filePath)
	if err != nil {
		logger.Error("Failed to read URL list: %v", err)
		os.Exit(1)
	}
	if len(urls) == 0 {
		logger.Error("The file %q is empty or contains no valid URLs.", *filePath)
		os.Exit(1)
	}

	logger.Info("Config — %d URLs | concurrency: %d | rate: %dms (+%dms jitter)",
		len(urls), cfg.MaxConcurrency, cfg.RateLimitMs, cfg.JitterMs)

	client := airbnb.NewClient(cfg.ScraperAPIBase, cfg.ScraperAPIKey, cfg.ScraperRPS)
	gridScraper := airbnb.NewGridScraper(client, logger, airbnb.SweepOptions{
		MaxRetries: cfg.MaxRetries,
	})

	var sheetsExporter *storage.SheetsExporter
	if cfg.SheetsConfigured() {
		sheetsExporter, err = storage.NewSheetsExporter(context.Background(),
			cfg.SheetsCredentialsFile, cfg.SheetsFolderName, cfg.SheetsShareEmail)
		if err != nil {
			logger.Error("Google Sheets export disabled: %v", err)
			sheetsExporter = nil
		}
	}

	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs, cfg.JitterMs)
	seen := utils.NewURLSet()

	var mu sync.Mutex
	var done, failed int

	start := time.Now()
	index := 0
	for _, listingURL := range urls {
		if !seen.Add(listingURL) {
			logger.Debug("[bulk] Duplicate URL skipped: %s", listingURL)
			continue
		}

		match := roomIDRe.FindStringSubmatch(listingURL)
		if match == nil {
			logger.Warn("[bulk] No listing id in URL, skipping: %s", listingURL)
			continue
		}

		index++
		idx, id, url := index, match[1], listingURL
		pool.Submit(func() {
			err := processListing(cfg, logger, gridScraper, sheetsExporter, idx, id, url)
			mu.Lock()
			if err != nil {
				failed++
			} else {
				done++
			}
			mu.Unlock()
		})
	}
	pool.Wait()

	logger.Info("Bulk scrape complete in %v — %d reports written, %d failed",
		time.Since(start).Round(time.Second), done, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// processListing fetches one listing's details and writes its report files.
// Failures are isolated per listing.
func processListing(cfg *config.Config, logger *utils.Logger, gs *airbnb.GridScraper,
	sheetsExporter *storage.SheetsExporter, idx int, id, url string) error {

	logger.Info("[bulk] Processing URL #%d: %s", idx, url)

	record, err := gs.FetchDetails(context.Background(), url)
	if err != nil {
		logger.Error("[bulk] Detail fetch failed for %s: %v", url, err)
		return err
	}

	report := services.BuildDetailReport(id, url, record)

	xlsxPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%d) %s.xlsx", idx, id))
	if err := storage.NewXLSXWriter(xlsxPath).WriteReport(report); err != nil {
		logger.Error("[bulk] Report write failed for %s: %v", id, err)
		return err
	}
	logger.Info("[bulk] Report saved to %s (%d sections)", xlsxPath, len(report.Sections))

	if sheetsExporter != nil {
		sheetURL, err := sheetsExporter.Export(context.Background(), report)
		if err != nil {
			// local report already written; the sheet is best-effort
			logger.Error("[bulk] Google Sheets export failed for %s: %v", id, err)
		} else {
			logger.Info("[bulk] Google Sheet created: %s", sheetURL)
		}
	}
	return nil
}
