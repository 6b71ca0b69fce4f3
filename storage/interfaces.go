package storage

import (
	"errors"
	"fmt"

	"airbnb-area-scraper/models"
)

// ErrExport marks a sink write failure. A failed sink is reported and
// skipped; sections already written elsewhere stay intact.
var ErrExport = errors.New("export failed")

func exportErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrExport, err)
}

// RowWriter persists flattened listing rows.
type RowWriter interface {
	WriteRows(rows []models.FlatRow) error
	Close() error
}

// RawWriter archives the unflattened record collection losslessly, for
// reprocessing without re-querying the external source.
type RawWriter interface {
	WriteRaw(records []models.Record) error
}

// ReportWriter renders a multi-section detail report.
type ReportWriter interface {
	WriteReport(report *models.DetailReport) error
}
