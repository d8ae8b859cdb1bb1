package storage

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database with the schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (n note) RecordID() string { return n.ID }

func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
	tables := getTableNames(t, db)
	want := []string{"record", "setting"}
	if len(tables) != len(want) || tables[0] != want[0] || tables[1] != want[1] {
		t.Errorf("tables = %v, want %v", tables, want)
	}
}

func TestSQLiteCollection_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewSQLiteCollection[note](openTestDB(t), "notes")

	got, err := c.List(ctx)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty List = %v, %v", got, err)
	}
	for _, n := range []note{{"a", "one"}, {"b", "two"}, {"c", "three"}} {
		if err := c.Append(ctx, n); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := c.Append(ctx, note{"a", "again"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Append = %v", err)
	}
	if err := c.Replace(ctx, note{"b", "TWO"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := c.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, _ = c.List(ctx)
	if len(got) != 2 || got[0] != (note{"b", "TWO"}) || got[1].ID != "c" {
		t.Errorf("List = %v", got)
	}
	if err := c.Remove(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing = %v", err)
	}
	if err := c.Replace(ctx, note{"zz", ""}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace missing = %v", err)
	}
}

func TestSQLiteCollection_Isolation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a := NewSQLiteCollection[note](db, "a")
	b := NewSQLiteCollection[note](db, "b")
	a.Append(ctx, note{"1", "x"})
	b.Append(ctx, note{"1", "y"})
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := a.List(ctx); len(got) != 0 {
		t.Errorf("a not cleared: %v", got)
	}
	if got, _ := b.List(ctx); len(got) != 1 || got[0].Text != "y" {
		t.Errorf("b affected by clear: %v", got)
	}
}

func TestSQLiteCollection_ReplaceAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := NewSQLiteCollection[note](openTestDB(t), "notes")
	c.Append(ctx, note{"a", "1"})
	c.Append(ctx, note{"b", "2"})

	// A duplicate id fails the swap half way; the old contents must survive.
	err := c.ReplaceAll(ctx, []note{{"x", "1"}, {"x", "2"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("ReplaceAll = %v, want ErrDuplicate", err)
	}
	got, _ := c.List(ctx)
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("contents after failed swap = %v", got)
	}

	if err := c.ReplaceAll(ctx, []note{{"z", "9"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, _ = c.List(ctx)
	if len(got) != 1 || got[0].ID != "z" {
		t.Errorf("contents after swap = %v", got)
	}
}

func TestSQLiteKV(t *testing.T) {
	ctx := context.Background()
	kv := NewSQLiteKV(openTestDB(t))

	if _, ok, err := kv.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get missing = %v, %v", ok, err)
	}
	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kv.Set(ctx, "k", "v2")
	if v, ok, _ := kv.Get(ctx, "k"); !ok || v != "v2" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	err := kv.SetIfUnchanged(ctx, "version", "", map[string]string{"version": "1", "a": "x"})
	if err != nil {
		t.Fatalf("SetIfUnchanged from empty: %v", err)
	}
	err = kv.SetIfUnchanged(ctx, "version", "0", map[string]string{"version": "1", "a": "y"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("stale guard = %v, want ErrConflict", err)
	}
	if v, _, _ := kv.Get(ctx, "a"); v != "x" {
		t.Errorf("a = %q after rejected write", v)
	}
}
