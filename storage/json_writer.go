package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"airbnb-area-scraper/models"
)

// JSONWriter archives the raw, unflattened record collection as a prettified
// JSON snapshot. The snapshot is lossless: loading it back reproduces the
// collection exactly, so archived data can be reprocessed offline.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a JSONWriter targeting path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// WriteRaw serializes records verbatim.
func (w *JSONWriter) WriteRaw(records []models.Record) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return exportErr("json: create output dir", err)
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return exportErr("json: marshal records", err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return exportErr("json: write snapshot", err)
	}
	return nil
}

// LoadRaw reads a snapshot back. Numbers come back as json.Number so room
// ids round-trip exactly. Array elements that are not mappings are counted
// and skipped rather than failing the load.
func LoadRaw(path string) (records []models.Record, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("json: read snapshot %q: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, 0, fmt.Errorf("json: snapshot %q is not a record array: %w", path, err)
	}

	records = make([]models.Record, 0, len(items))
	for _, item := range items {
		d := json.NewDecoder(bytes.NewReader(item))
		d.UseNumber()
		var rec models.Record
		if err := d.Decode(&rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// WriteURLList writes one listing URL per line.
func WriteURLList(path string, urls []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return exportErr("urls: create output dir", err)
	}

	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return exportErr("urls: write list", err)
	}
	return nil
}

// LoadURLList reads a newline-delimited URL list, dropping blank lines.
func LoadURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("urls: read list %q: %w", path, err)
	}

	var urls []string
	for _, line := range bytes.Split(data, []byte("\n")) {
		if u := string(bytes.TrimSpace(line)); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
