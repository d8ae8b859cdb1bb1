package storage

import (
	"context"
	"fmt"
)

// SQLiteKV implements KV on the setting table.
type SQLiteKV struct {
	db SQLDB
}

// NewSQLiteKV creates a KV store.
func NewSQLiteKV(db SQLDB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the stored value for key.
// INVARIANT: Store state is not mutated
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM setting WHERE key = ?`, key).Scan(&v)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

// Set upserts a single key.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO setting (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SetIfUnchanged writes values in one transaction guarded by guardKey.
// POST: either all values are written or none are
func (s *SQLiteKV) SetIfUnchanged(ctx context.Context, guardKey, guard string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT value FROM setting WHERE key = ?`, guardKey).Scan(&current)
	if err != nil && !isNoRows(err) {
		return fmt.Errorf("read %s: %w", guardKey, err)
	}
	if current != guard {
		return ErrConflict
	}
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO setting (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("set setting %s: %w", k, err)
		}
	}
	return tx.Commit()
}
