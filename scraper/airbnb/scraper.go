package airbnb

import (
	"context"
	"time"

	"airbnb-area-scraper/models"
	"airbnb-area-scraper/utils"
)

// SweepOptions tune the grid sweep.
type SweepOptions struct {
	// Delay between successive cell searches.
	Delay time.Duration
	// MaxRetries per cell before it is recorded as failed.
	MaxRetries int
}

// GridScraper sweeps a search grid cell by cell, merging results into a
// de-duplicated collection. Cells fail independently: a dead cell is logged
// and recorded, and the sweep moves on.
type GridScraper struct {
	src    Source
	logger *utils.Logger
	retry  *utils.RetryConfig
	delay  time.Duration
}

// NewGridScraper creates a GridScraper over the given source.
func NewGridScraper(src Source, logger *utils.Logger, opts SweepOptions) *GridScraper {
	retries := opts.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &GridScraper{
		src:    src,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: retries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		delay: opts.Delay,
	}
}

// Sweep searches every cell in order, merging results into coll. The
// returned results carry one entry per cell, success or failure, in sweep
// order.
func (s *GridScraper) Sweep(ctx context.Context, cells []models.BoundingBox, filters SearchFilters, coll models.Collection) []models.CellResult {
	results := make([]models.CellResult, 0, len(cells))

	for i, cell := range cells {
		s.logger.Info("[airbnb] Searching area %d/%d (%s)...", i+1, len(cells), cell.Name)

		var found []models.Record
		err := s.retry.Do("search-"+cell.Name, func() error {
			var err error
			found, err = s.src.Search(ctx, cell, filters)
			return err
		})

		if err != nil {
			s.logger.Error("[airbnb] Area %s failed: %v", cell.Name, err)
			results = append(results, models.CellResult{Box: cell, Err: err})
		} else {
			_, skipped := coll.Merge(found)
			if skipped > 0 {
				s.logger.Warn("[airbnb] Area %s returned %d records without a room id", cell.Name, skipped)
			}
			s.logger.Info("[airbnb] Found %d listings in %s (unique so far: %d)",
				len(found), cell.Name, coll.Len())
			results = append(results, models.CellResult{Box: cell, Found: len(found), Skipped: skipped})
		}

		if i < len(cells)-1 && !sleepCtx(ctx, s.delay) {
			s.logger.Warn("[airbnb] Sweep canceled after %d/%d cells", i+1, len(cells))
			break
		}
	}

	return results
}

// FetchDetails retrieves an enriched record for one listing URL, retrying
// transient failures.
func (s *GridScraper) FetchDetails(ctx context.Context, listingURL string) (models.Record, error) {
	var record models.Record
	err := s.retry.Do("details "+listingURL, func() error {
		var err error
		record, err = s.src.Details(ctx, listingURL)
		return err
	})
	return record, err
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
