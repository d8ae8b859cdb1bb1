package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autokudos/internal/adapters/storage"
	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/settings"
)

// memCollection is an in-memory storage.Collection for tests.
type memCollection[T storage.Record] struct {
	items     []T
	appendErr error
	removeErr error
	listErr   error
	swapErr   error
	swaps     int
}

func (c *memCollection[T]) Append(_ context.Context, v T) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	for _, cur := range c.items {
		if cur.RecordID() == v.RecordID() {
			return storage.ErrDuplicate
		}
	}
	c.items = append(c.items, v)
	return nil
}

func (c *memCollection[T]) List(_ context.Context) ([]T, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]T(nil), c.items...), nil
}

func (c *memCollection[T]) Replace(_ context.Context, v T) error {
	for i, cur := range c.items {
		if cur.RecordID() == v.RecordID() {
			c.items[i] = v
			return nil
		}
	}
	return storage.ErrNotFound
}

func (c *memCollection[T]) Remove(_ context.Context, id string) error {
	if c.removeErr != nil {
		return c.removeErr
	}
	for i, cur := range c.items {
		if cur.RecordID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (c *memCollection[T]) ReplaceAll(_ context.Context, vs []T) error {
	if c.swapErr != nil {
		return c.swapErr
	}
	c.swaps++
	c.items = append([]T(nil), vs...)
	return nil
}

func (c *memCollection[T]) Clear(_ context.Context) error {
	if c.swapErr != nil {
		return c.swapErr
	}
	c.items = nil
	return nil
}

// memSettings mimics the versioned settings store.
type memSettings struct {
	cur settings.Settings
}

func newMemSettings() *memSettings {
	return &memSettings{cur: settings.Defaults()}
}

func (s *memSettings) Load(_ context.Context) (settings.Settings, error) {
	return s.cur, nil
}

func (s *memSettings) Save(_ context.Context, st settings.Settings) (settings.Settings, error) {
	if st.Version != s.cur.Version {
		return settings.Settings{}, settings.ErrStaleVersion
	}
	st.Version++
	s.cur = st
	return st, nil
}

// memSeason is an in-memory championship season store.
type memSeason struct {
	cal  championship.Calendar
	grid championship.WinnerGrid
}

func newMemSeason() *memSeason {
	return &memSeason{cal: championship.DefaultCalendar(), grid: championship.WinnerGrid{}}
}

func (s *memSeason) Calendar(_ context.Context) (championship.Calendar, error) {
	return append(championship.Calendar(nil), s.cal...), nil
}

func (s *memSeason) SaveCalendar(_ context.Context, cal championship.Calendar) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	s.cal = cal
	return nil
}

func (s *memSeason) Winners(_ context.Context) (championship.WinnerGrid, error) {
	return s.grid, nil
}

func (s *memSeason) SaveWinners(_ context.Context, grid championship.WinnerGrid) error {
	s.grid = grid
	return nil
}

type recordingPublisher struct {
	calls [][]championship.Row
	err   error
}

func (p *recordingPublisher) PublishStandings(_ context.Context, rows []championship.Row) error {
	p.calls = append(p.calls, rows)
	return p.err
}

var errBoom = errors.New("boom")

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)
}
