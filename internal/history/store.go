// Package history persists completed focus phases to a per-user SQLite
// database and derives the per-task cumulative tomato counts shown in the
// history views.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const dbFilename = "tomato.db"

// Store is the durable, append-only focus history. A single process owns
// it; the connection pool is pinned to one connection accordingly.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database location inside the XDG data directory:
// $XDG_DATA_HOME/tomato/tomato.db or ~/.local/share/tomato/tomato.db.
// The whole directory is relocatable by copying it.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tomato", dbFilename), nil
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=8000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS focus_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			completed_pomodoros INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// OpenDefault opens the store at its default per-user location.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	return Open(path)
}

// Path returns the database file location, exposed so users can find and
// copy their history.
func (s *Store) Path() string { return s.path }

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Append durably persists one focus record. The record's ID field is
// ignored; the database assigns it.
func (s *Store) Append(ctx context.Context, r FocusRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO focus_records (task, duration_seconds, completed_at, completed_pomodoros)
		 VALUES (?, ?, ?, ?)`,
		r.Task, r.DurationSeconds, r.CompletedAt, r.CompletedPomodoros,
	)
	if err != nil {
		return fmt.Errorf("append focus record: %w", err)
	}
	return nil
}

// Load returns records ordered by completion time descending, most recent
// first. A limit of zero (or negative) means all records.
func (s *Store) Load(ctx context.Context, limit int) ([]FocusRecord, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats a negative LIMIT as unbounded
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task, duration_seconds, completed_at, completed_pomodoros
		 FROM focus_records
		 ORDER BY completed_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load focus records: %w", err)
	}
	defer rows.Close()

	var records []FocusRecord
	for rows.Next() {
		var r FocusRecord
		if err := rows.Scan(&r.ID, &r.Task, &r.DurationSeconds, &r.CompletedAt, &r.CompletedPomodoros); err != nil {
			return nil, fmt.Errorf("scan focus record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus records: %w", err)
	}
	return records, nil
}
