package storage

import (
	"context"
	"errors"
)

// Collection names shared by every backend.
const (
	CollectionMembers        = "members"
	CollectionResults        = "race_results"
	CollectionPending        = "pending_results"
	CollectionChampPending   = "champ_pending"
	CollectionChampStandings = "champ_results_final"
)

// Store errors
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record id already exists")
	ErrConflict  = errors.New("value changed since it was read")
)

// Record is anything stored in a Collection.
type Record interface {
	RecordID() string
}

// Collection is an ordered list of records keyed by a stable id.
// List returns records in insertion order.
type Collection[T Record] interface {
	Append(ctx context.Context, v T) error
	List(ctx context.Context) ([]T, error)
	// Replace overwrites the record whose id matches v.RecordID().
	Replace(ctx context.Context, v T) error
	Remove(ctx context.Context, id string) error
	// ReplaceAll swaps the whole collection for vs. Readers see either the
	// old or the new contents, never a partial mix.
	ReplaceAll(ctx context.Context, vs []T) error
	Clear(ctx context.Context) error
}

// KV holds scalar settings.
type KV interface {
	// Get reports ok=false when key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetIfUnchanged writes values atomically when guardKey still holds
	// guard (an absent key matches ""). Otherwise it returns ErrConflict.
	SetIfUnchanged(ctx context.Context, guardKey, guard string, values map[string]string) error
}
