package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLiteCollection implements Collection as rows of JSON in the record table.
type SQLiteCollection[T Record] struct {
	db   SQLDB
	name string
}

// NewSQLiteCollection returns the named collection.
// PRE: InitDB has run against db
func NewSQLiteCollection[T Record](db SQLDB, name string) *SQLiteCollection[T] {
	return &SQLiteCollection[T]{db: db, name: name}
}

// Append adds v at the end of the collection.
// PRE: v.RecordID() is non-empty
// POST: v is the last record returned by List, or ErrDuplicate
func (c *SQLiteCollection[T]) Append(ctx context.Context, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO record (collection, id, body) VALUES (?, ?, ?)`,
		c.name, v.RecordID(), string(body))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("append %s: %w", c.name, err)
	}
	return nil
}

// List returns every record in insertion order.
// INVARIANT: Store state is not mutated
func (c *SQLiteCollection[T]) List(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT body FROM record WHERE collection = ? ORDER BY seq`, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Replace overwrites the stored record with v's id, keeping its position.
// POST: returns ErrNotFound when no record has that id
func (c *SQLiteCollection[T]) Replace(ctx context.Context, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	res, err := c.db.ExecContext(ctx,
		`UPDATE record SET body = ? WHERE collection = ? AND id = ?`,
		string(body), c.name, v.RecordID())
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	return requireAffected(res)
}

// Remove deletes the record with the given id.
// POST: returns ErrNotFound when no record has that id
func (c *SQLiteCollection[T]) Remove(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM record WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return fmt.Errorf("remove %s: %w", c.name, err)
	}
	return requireAffected(res)
}

// ReplaceAll rewrites the collection inside one transaction.
// POST: on error the previous contents are untouched
func (c *SQLiteCollection[T]) ReplaceAll(ctx context.Context, vs []T) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM record WHERE collection = ?`, c.name); err != nil {
		return fmt.Errorf("replace all %s: %w", c.name, err)
	}
	for _, v := range vs {
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record (collection, id, body) VALUES (?, ?, ?)`,
			c.name, v.RecordID(), string(body)); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("replace all %s: %w", c.name, err)
		}
	}
	return tx.Commit()
}

// Clear removes every record in the collection.
func (c *SQLiteCollection[T]) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM record WHERE collection = ?`, c.name); err != nil {
		return fmt.Errorf("clear %s: %w", c.name, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation matches the SQLite constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
