// Package db provides database connection management and schema migrations.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with the service's SQLite configuration.
type DB struct {
	*sql.DB
}

// Open opens the SQLite database under dataDir. The database is opened with:
// - WAL mode so catch-up reads never block writers
// - foreign key constraints enabled
// - a single writer connection (SQLite serializes write transactions)
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapper.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// OpenMemory opens an in-memory database with the same configuration.
// Used by tests.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func configure(db *sql.DB) error {
	// SQLite doesn't support multiple writers; a single pooled connection
	// also keeps an in-memory database on one handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
