package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"airbnb-area-scraper/models"
)

const listingsSheet = "Listings"

// XLSXWriter writes spreadsheet workbooks: either a single-sheet flat
// listing table, or a multi-sheet detail report with one sheet per section.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter targeting path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// WriteRows writes the fixed column header and one row per listing to a
// single "Listings" sheet.
func (w *XLSXWriter) WriteRows(rows []models.FlatRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", listingsSheet); err != nil {
		return exportErr("xlsx: rename sheet", err)
	}

	header := make([]any, len(models.FlatColumns))
	for i, col := range models.FlatColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(listingsSheet, "A1", &header); err != nil {
		return exportErr("xlsx: write header", err)
	}

	for i := range rows {
		cells := rows[i].Cells()
		for j, v := range cells {
			cells[j] = nativeCell(v)
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return exportErr("xlsx: cell name", err)
		}
		if err := f.SetSheetRow(listingsSheet, ref, &cells); err != nil {
			return exportErr("xlsx: write row", err)
		}
	}

	return w.save(f)
}

// WriteReport writes one sheet per report section, in section order.
func (w *XLSXWriter) WriteReport(report *models.DetailReport) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sec := range report.Sections {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sec.Name); err != nil {
				return exportErr("xlsx: rename sheet", err)
			}
		} else {
			if _, err := f.NewSheet(sec.Name); err != nil {
				return exportErr("xlsx: add sheet "+sec.Name, err)
			}
		}

		header := make([]any, len(sec.Header))
		for j, h := range sec.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sec.Name, "A1", &header); err != nil {
			return exportErr("xlsx: write header "+sec.Name, err)
		}

		for r, row := range sec.Rows {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = nativeCell(v)
			}
			ref, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return exportErr("xlsx: cell name", err)
			}
			if err := f.SetSheetRow(sec.Name, ref, &cells); err != nil {
				return exportErr("xlsx: write row "+sec.Name, err)
			}
		}
	}

	return w.save(f)
}

// Close satisfies RowWriter; workbooks are written whole in WriteRows.
func (w *XLSXWriter) Close() error {
	return nil
}

func (w *XLSXWriter) save(f *excelize.File) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportErr("xlsx: create output dir", err)
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return exportErr(fmt.Sprintf("xlsx: save %q", w.path), err)
	}
	return nil
}
