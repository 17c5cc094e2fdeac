package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite handle and hands out repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withConnParams(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo {
	return &userRepo{db: s.db}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_records (
		user_id    TEXT PRIMARY KEY,
		user_name  TEXT NOT NULL DEFAULT '',
		inferences TEXT NOT NULL DEFAULT '[]',
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id             TEXT PRIMARY KEY,
		sequence       INTEGER NOT NULL UNIQUE,
		user_id        TEXT NOT NULL,
		channel_id     TEXT NOT NULL DEFAULT '',
		question_id    TEXT NOT NULL,
		outcome        TEXT NOT NULL,
		unlock_kind    TEXT NOT NULL DEFAULT '',
		unlock_chapter REAL NOT NULL DEFAULT 0,
		progress       INTEGER NOT NULL DEFAULT 0,
		created_at     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_user ON answer_events (user_id, sequence)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// connParams are applied by the driver to every pooled connection.
// Transactions start with BEGIN IMMEDIATE so read-modify-write updates
// serialize on the write lock instead of failing on upgrade.
var connParams = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
	"_pragma=synchronous(NORMAL)",
	"_txlock=immediate",
}

func withConnParams(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(connParams, "&")
}

// applyPragmas sets database-wide modes.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. INFERENCE_DB environment variable
// 2. $XDG_DATA_HOME/inference/inference.db
// 3. ~/.local/share/inference/inference.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("INFERENCE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "inference", "inference.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
