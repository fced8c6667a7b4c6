package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default location of the local database
func DBPath() string {
	return filepath.Join("data", "coat-terminal.db")
}

// Open opens (creating if needed) the sqlite database at dbPath and makes
// sure the schema exists. ":memory:" is accepted for tests.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY on the file database.
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the place-name cache table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS place_names (
			lat_key TEXT NOT NULL,
			lon_key TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (lat_key, lon_key)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating place_names table: %w", err)
	}

	return nil
}
