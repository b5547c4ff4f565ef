package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_slots (
	name       TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

// SQLite persists the slot in a single-row table of a local database file,
// the process-local analog of the browser's persisted storage.
type SQLite struct {
	db   *sql.DB
	name string
}

// NewSQLite opens (creating if needed) the database at path and prepares the
// slot table. The name distinguishes slots sharing one file.
func NewSQLite(path, name string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare session db: %w", err)
	}
	return &SQLite{db: db, name: name}, nil
}

// Load implements session.Repository.
func (s *SQLite) Load() ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM session_slots WHERE name = ?`, s.name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Save implements session.Repository.
func (s *SQLite) Save(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO session_slots (name, value, updated_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.name, data,
	)
	return err
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
