// Package store provides the SQLite persistence layer for ElectroGest.
//
// Implements the database access patterns the dashboard depends on: WAL
// journaling for concurrent readers, busy-retry with exponential backoff for
// contended writes, schema initialization, and seed data for first runs.
// The schema keeps the table and column names the original product created
// (clientes, produtos, vendas, ...) so existing database files open cleanly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/juniorxam/Gestaodevendas/internal/logging"
)

const (
	// maxWriteRetries bounds how many times a contended write is retried
	// before the busy error is surfaced to the caller.
	maxWriteRetries = 10

	// baseBackoff is the first retry delay; each retry doubles it.
	baseBackoff = 100 * time.Millisecond
)

// Store wraps the SQLite connection pool with ElectroGest's access patterns.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path with the pragmas the
// dashboard requires: WAL journal, NORMAL synchronous, foreign keys enforced,
// and a generous busy timeout for overlapping writes.
func Open(path string) (*Store, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=30000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA temp_store = MEMORY"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set SQLite temp_store pragma: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close SQLite database: %w", err)
		}
	}
	return nil
}

// Path returns the database file path backing this store.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the raw connection pool for read queries composed by services.
func (s *Store) DB() *sql.DB {
	return s.db
}

// isBusyError reports whether an error is SQLite lock contention that is
// worth retrying rather than surfacing.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database is busy")
}

// withWriteRetry executes fn, retrying with exponential backoff while the
// database reports lock contention. Non-busy errors surface immediately.
func withWriteRetry(fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isBusyError(err) {
			return err
		}
		lastErr = err
		wait := baseBackoff * (1 << attempt)
		logging.Warn("Database locked, retrying in %v (attempt %d/%d)", wait, attempt+1, maxWriteRetries)
		time.Sleep(wait)
	}
	logging.Error("Max retries (%d) exceeded for database write", maxWriteRetries)
	return lastErr
}

// Exec runs a write statement with busy-retry and returns the affected row count.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var rows int64
	err := withWriteRetry(func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		rows, err = res.RowsAffected()
		return err
	})
	return rows, err
}

// ExecInsert runs an INSERT with busy-retry and returns the new row ID.
func (s *Store) ExecInsert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := withWriteRetry(func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// QueryRow runs a single-row read query.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// Query runs a multi-row read query.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// WithTx runs fn inside a transaction with busy-retry around the whole unit.
// The transaction commits when fn returns nil and rolls back otherwise, so
// multi-statement writes (sale registration, voids) stay atomic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return withWriteRetry(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("Transaction rollback failed: %v", rbErr)
			}
			return err
		}

		return tx.Commit()
	})
}
