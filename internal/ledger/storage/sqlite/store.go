// Package sqlite provides the SQLite-backed persistent store for the ledger.
// The store is exclusively owned by the core process; no other process may
// open it concurrently for writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"coincore/internal/ledger"
	"coincore/internal/ledger/storage/sqlite/migrations"
	sqlitemigrate "coincore/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for accounts and transactions.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a ledger store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS)
}

// isConstraintError reports whether this error is a SQLite constraint
// violation (duplicate primary key, CHECK failure).
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}

func timeToUnixNanos(value time.Time) int64 {
	return value.UTC().UnixNano()
}

func unixNanosToTime(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

var _ ledger.Store = (*Store)(nil)
