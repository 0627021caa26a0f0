// Package sqlite provides the SQLite-backed configuration store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"fence-bom/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the SQLite-backed store.Store implementation
type Store struct {
	db *sql.DB
}

// Open opens the configuration database, sets recommended pragmas, and
// runs pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("open sqlite database", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, errors.Storage("set sqlite pragmas", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("ping sqlite database", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, errors.Storage("set goose dialect", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, errors.Storage("run migrations", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// withRetry retries a write while the database is busy. WAL mode keeps
// contention windows short; a few fibonacci-spaced attempts cover them.
func withRetry(ctx context.Context, fn func() error) error {
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn()
		if err != nil && isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
