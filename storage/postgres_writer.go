package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-area-scraper/models"
)

// PostgresWriter persists flattened listing rows to PostgreSQL, keyed by
// room id so repeated runs upsert instead of duplicating.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			room_id                      TEXT PRIMARY KEY,
			listing_url                  TEXT NOT NULL,
			category                     TEXT,
			name                         TEXT,
			title                        TEXT,
			rating_value                 NUMERIC,
			rating_review_count          INTEGER,
			is_superhost                 BOOLEAN NOT NULL DEFAULT FALSE,
			is_guest_favorite            BOOLEAN NOT NULL DEFAULT FALSE,
			latitude                     NUMERIC,
			longitude                    NUMERIC,
			price_unit_qualifier         TEXT,
			price_unit_currency_symbol   TEXT,
			price_unit_original_amount   NUMERIC,
			price_unit_discounted_amount NUMERIC,
			price_breakdown_summary      TEXT NOT NULL DEFAULT '',
			first_image_url              TEXT,
			scraped_at                   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price  ON listings(price_unit_original_amount);
		CREATE INDEX IF NOT EXISTS idx_listings_rating ON listings(rating_value);
		CREATE INDEX IF NOT EXISTS idx_listings_geo    ON listings(latitude, longitude);
	`)
	return err
}

const listingCols = 17

// WriteRows upserts all rows in batches. Rows without a room id have nothing
// to key on and are skipped.
func (pw *PostgresWriter) WriteRows(rows []models.FlatRow) error {
	if len(rows) == 0 {
		return nil
	}

	keyed := make([]models.FlatRow, 0, len(rows))
	for _, r := range rows {
		if r.RoomID != nil {
			keyed = append(keyed, r)
		}
	}

	const batchSize = 50
	for i := 0; i < len(keyed); i += batchSize {
		end := i + batchSize
		if end > len(keyed) {
			end = len(keyed)
		}
		if err := pw.upsertBatch(keyed[i:end]); err != nil {
			return exportErr("postgres: upsert batch", err)
		}
	}
	return nil
}

func (pw *PostgresWriter) upsertBatch(batch []models.FlatRow) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*listingCols)

	for idx := range batch {
		base := idx * listingCols
		refs := make([]string, listingCols)
		for k := range refs {
			refs[k] = fmt.Sprintf("$%d", base+k+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(refs, ",")+")")
		for _, cell := range batch[idx].Cells() {
			valueArgs = append(valueArgs, sqlParam(cell))
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (
			room_id, listing_url, category, name, title,
			rating_value, rating_review_count,
			is_superhost, is_guest_favorite,
			latitude, longitude,
			price_unit_qualifier, price_unit_currency_symbol,
			price_unit_original_amount, price_unit_discounted_amount,
			price_breakdown_summary, first_image_url
		)
		VALUES %s
		ON CONFLICT (room_id) DO UPDATE SET
			listing_url                  = EXCLUDED.listing_url,
			category                     = EXCLUDED.category,
			name                         = EXCLUDED.name,
			title                        = EXCLUDED.title,
			rating_value                 = EXCLUDED.rating_value,
			rating_review_count          = EXCLUDED.rating_review_count,
			is_superhost                 = EXCLUDED.is_superhost,
			is_guest_favorite            = EXCLUDED.is_guest_favorite,
			latitude                     = EXCLUDED.latitude,
			longitude                    = EXCLUDED.longitude,
			price_unit_qualifier         = EXCLUDED.price_unit_qualifier,
			price_unit_currency_symbol   = EXCLUDED.price_unit_currency_symbol,
			price_unit_original_amount   = EXCLUDED.price_unit_original_amount,
			price_unit_discounted_amount = EXCLUDED.price_unit_discounted_amount,
			price_breakdown_summary      = EXCLUDED.price_breakdown_summary,
			first_image_url              = EXCLUDED.first_image_url,
			scraped_at                   = NOW()
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// sqlParam maps a flat-row cell onto a driver-friendly value. Numeric text
// coerces server-side; nil stays NULL.
func sqlParam(v any) any {
	return nativeCell(v)
}

// Clear deletes all stored listings.
func (pw *PostgresWriter) Clear() error {
	if _, err := pw.db.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
