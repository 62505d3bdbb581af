// Package store provides SQLite-backed persistence for pepper's internal
// features: tasks, notes, persons, inbox items and per-user settings.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// timeFormat is RFC 3339 with a fixed-width fraction, so the TEXT timestamp
// columns sort chronologically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath. It auto-creates the
// parent directory (e.g. ~/.pepper/) and runs schema migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs schema migrations up to the current version.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	if ver < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			number       INTEGER NOT NULL,
			title        TEXT NOT NULL,
			memo         TEXT,
			due_date     TEXT,
			priority     TEXT NOT NULL DEFAULT 'medium',
			status       TEXT NOT NULL DEFAULT 'new',
			delegated_to TEXT,
			tags         TEXT,
			annotation   TEXT,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_user_number ON tasks(user_id, number)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			title      TEXT,
			content    TEXT,
			color      TEXT NOT NULL DEFAULT 'yellow',
			is_pinned  INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id)`,
		`CREATE TABLE IF NOT EXISTS persons (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			name         TEXT NOT NULL,
			email        TEXT,
			phone_number TEXT,
			created_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_persons_user ON persons(user_id)`,
		`CREATE TABLE IF NOT EXISTS inbox_items (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			content    TEXT NOT NULL,
			source     TEXT,
			status     TEXT NOT NULL DEFAULT 'unprocessed',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inbox_user_status ON inbox_items(user_id, status)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			user_id                   TEXT PRIMARY KEY,
			primary_calendar_provider TEXT NOT NULL DEFAULT 'microsoft'
		)`,
		`INSERT OR REPLACE INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableString returns nil for empty strings, otherwise the string value.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
