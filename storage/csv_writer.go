package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"airbnb-area-scraper/models"
)

// CSVWriter writes flattened listing rows to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the fixed column header. Intermediate directories are created
// automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write(models.FlatColumns); err != nil {
		_ = f.Close()
		return nil, exportErr("csv: write header", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRows appends one CSV line per flat row, cells in FlatColumns order.
func (c *CSVWriter) WriteRows(rows []models.FlatRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := make([]string, len(models.FlatColumns))
	for i := range rows {
		for j, cell := range rows[i].Cells() {
			line[j] = formatCell(cell)
		}
		if err := c.writer.Write(line); err != nil {
			return exportErr("csv: write row", err)
		}
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return exportErr("csv: flush", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
