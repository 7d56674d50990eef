package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteBackend stores entries in the nvs_entries table.
// The table is created by the embedded migrations.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a backend over an open, migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, namespace, key string) (Entry, error) {
	var width, value int64
	err := b.db.QueryRowContext(ctx, `
		SELECT width, value FROM nvs_entries
		WHERE namespace = ? AND key = ?
	`, namespace, key).Scan(&width, &value)

	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s/%s", ErrNotFound, namespace, key)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("loading %s/%s: %w", namespace, key, err)
	}
	if value < 0 {
		return Entry{}, fmt.Errorf("%w: %s=%d", ErrValueRange, key, value)
	}

	// #nosec G115 -- width is constrained by the table CHECK, value checked above
	return Entry{Key: key, Width: Width(width), Value: uint32(value)}, nil
}

// Store implements Backend. All entries are written in one transaction.
func (b *SQLiteBackend) Store(ctx context.Context, namespace string, entries []Entry) error {
	for _, e := range entries {
		if err := e.check(); err != nil {
			return err
		}
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nvs_entries (namespace, key, width, value, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(namespace, key) DO UPDATE SET
				width = excluded.width,
				value = excluded.value,
				updated_at = excluded.updated_at
		`, namespace, e.Key, int(e.Width), int64(e.Value), now); err != nil {
			return fmt.Errorf("storing %s/%s: %w", namespace, e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
