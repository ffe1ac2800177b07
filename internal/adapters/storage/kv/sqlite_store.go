package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lomba17/internal/adapters/storage"
)

// SQLiteStore implements Store on the kv_entry table and journals every
// change into kv_change.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new key/value store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Get returns the value stored under key.
// PRE: key is non-empty
// POST: Returns the value or ErrNotFound
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entry WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value under key.
// PRE: key is non-empty
// POST: kv_entry holds value for key; one kv_change row appended
// INVARIANT: No other keys are modified
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_entry (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
	`, key, value, now); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_change (key, op, changed_at) VALUES (?, 'set', ?)`, key, now); err != nil {
		return fmt.Errorf("kv journal %s: %w", key, err)
	}
	return tx.Commit()
}

// Remove deletes key. Removing an absent key is not an error.
// PRE: key is non-empty
// POST: key no longer present; one kv_change row appended if it existed
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM kv_entry WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv_change (key, op, changed_at) VALUES (?, 'remove', ?)`,
			key, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("kv journal %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Revision returns the id of the latest journal row, or 0 when nothing was written.
func (s *SQLiteStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM kv_change`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("kv revision: %w", err)
	}
	return rev, nil
}
