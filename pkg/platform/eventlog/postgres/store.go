// Package postgres persists event log records to a Postgres table. Records
// are insert-only; there is no update or delete path by construction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the postgres driver for database/sql.
	_ "github.com/lib/pq"

	"propdesk/pkg/platform/eventlog"
)

// Store implements eventlog.Log backed by the platform_events table.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres with the given DSN and verifies connectivity.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// Schema creates the platform_events table if missing. Called once at boot.
func (s *Store) Schema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS platform_events (
			id         UUID PRIMARY KEY,
			component  TEXT NOT NULL,
			action     TEXT NOT NULL,
			caller     TEXT NOT NULL,
			subject    TEXT NOT NULL,
			amount     BIGINT NOT NULL,
			emitted_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create platform_events: %w", err)
	}
	return nil
}

// Append inserts one record. Duplicate ids are ignored so the worker can
// safely retry after partial failures.
func (s *Store) Append(ctx context.Context, record eventlog.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_events (id, component, action, caller, subject, amount, emitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		record.ID,
		string(record.Component),
		string(record.Action),
		record.Caller.Hex(),
		record.Subject,
		int64(record.Amount),
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert platform event: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
