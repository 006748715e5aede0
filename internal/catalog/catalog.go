// Package catalog maintains a small SQLite index of the generated
// dataset, one row per day, so management tooling can list and verify
// datasets without parsing the binary files.
package catalog

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog wraps the per-dataset catalog database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates catalog.db inside the dataset directory and
// ensures the schema exists.
func Open(dir string) (*Catalog, error) {
	path := filepath.Join(dir, "catalog.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS days (
			date TEXT PRIMARY KEY,
			samples INTEGER NOT NULL,
			sunrise TEXT NOT NULL,
			sunset TEXT NOT NULL,
			csv_file TEXT NOT NULL,
			bin_file TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating days table: %w", err)
	}

	return &Catalog{db: db}, nil
}

// RecordDay upserts the catalog row of a completed day.
func (c *Catalog) RecordDay(date time.Time, samples int, rise, set time.Time) error {
	stamp := date.Format("20060102")
	_, err := c.db.Exec(`
		INSERT INTO days (date, samples, sunrise, sunset, csv_file, bin_file)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			samples = excluded.samples,
			sunrise = excluded.sunrise,
			sunset = excluded.sunset
	`, date.Format("2006-01-02"), samples,
		rise.Format("15:04:05"), set.Format("15:04:05"),
		stamp+".csv", stamp+".bin")
	if err != nil {
		return fmt.Errorf("inserting day row: %w", err)
	}
	return nil
}

// Days returns the number of cataloged days.
func (c *Catalog) Days() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM days`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting day rows: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
