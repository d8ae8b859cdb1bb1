package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"autokudos/internal/adapters/storage"
)

// Collection implements storage.Collection on a Redis list.
type Collection[T storage.Record] struct {
	client *Client
	key    string
}

// NewCollection returns the named collection.
func NewCollection[T storage.Record](c *Client, name string) *Collection[T] {
	return &Collection[T]{client: c, key: c.key(name)}
}

type entry[T storage.Record] struct {
	raw string
	v   T
}

func (c *Collection[T]) load(ctx context.Context, cmd redis.Cmdable) ([]entry[T], error) {
	raws, err := cmd.LRange(ctx, c.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", c.key, err)
	}
	out := make([]entry[T], 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.key, err)
		}
		out = append(out, entry[T]{raw: raw, v: v})
	}
	return out, nil
}

func indexOf[T storage.Record](entries []entry[T], id string) int {
	for i, e := range entries {
		if e.v.RecordID() == id {
			return i
		}
	}
	return -1
}

// watch runs fn under WATCH on the list key and maps an aborted EXEC to
// storage.ErrConflict.
func (c *Collection[T]) watch(ctx context.Context, fn func(tx *redis.Tx, entries []entry[T]) error) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		entries, err := c.load(ctx, tx)
		if err != nil {
			return err
		}
		return fn(tx, entries)
	}, c.key)
	if errors.Is(err, redis.TxFailedErr) {
		return storage.ErrConflict
	}
	return err
}

// Append pushes v to the tail of the list.
// POST: returns storage.ErrDuplicate when v's id is already present
func (c *Collection[T]) Append(ctx context.Context, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.watch(ctx, func(tx *redis.Tx, entries []entry[T]) error {
		if indexOf(entries, v.RecordID()) >= 0 {
			return storage.ErrDuplicate
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, c.key, string(body))
			return nil
		})
		return err
	})
}

// List returns the decoded list in order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	entries, err := c.load(ctx, c.client.Client)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.v
	}
	return out, nil
}

// Replace overwrites the element with v's id in place.
func (c *Collection[T]) Replace(ctx context.Context, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.watch(ctx, func(tx *redis.Tx, entries []entry[T]) error {
		i := indexOf(entries, v.RecordID())
		if i < 0 {
			return storage.ErrNotFound
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LSet(ctx, c.key, int64(i), string(body))
			return nil
		})
		return err
	})
}

// Remove deletes the element with the given id.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.watch(ctx, func(tx *redis.Tx, entries []entry[T]) error {
		i := indexOf(entries, id)
		if i < 0 {
			return storage.ErrNotFound
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, c.key, 1, entries[i].raw)
			return nil
		})
		return err
	})
}

// ReplaceAll stages vs under a temporary key and renames it over the list
// inside one MULTI block.
func (c *Collection[T]) ReplaceAll(ctx context.Context, vs []T) error {
	seen := make(map[string]bool, len(vs))
	values := make([]interface{}, 0, len(vs))
	for _, v := range vs {
		if seen[v.RecordID()] {
			return storage.ErrDuplicate
		}
		seen[v.RecordID()] = true
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.key, err)
		}
		values = append(values, string(body))
	}
	staging := c.key + ":staging"
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, staging)
		if len(values) == 0 {
			pipe.Del(ctx, c.key)
			return nil
		}
		pipe.RPush(ctx, staging, values...)
		pipe.Rename(ctx, staging, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace all %s: %w", c.key, err)
	}
	return nil
}

// Clear deletes the list.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", c.key, err)
	}
	return nil
}
