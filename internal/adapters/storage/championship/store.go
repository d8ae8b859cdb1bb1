package championship

import (
	"context"
	"encoding/json"
	"fmt"

	"autokudos/internal/adapters/storage"
	domain "autokudos/internal/domain/championship"
)

// Storage keys.
const (
	KeyCalendar = "champ_calendar_2026"
	KeyWinners  = "champ_winners_grid"
)

// Store persists the season calendar and the winner-time grid.
type Store interface {
	Calendar(ctx context.Context) (domain.Calendar, error)
	SaveCalendar(ctx context.Context, cal domain.Calendar) error
	Winners(ctx context.Context) (domain.WinnerGrid, error)
	SaveWinners(ctx context.Context, grid domain.WinnerGrid) error
}

// KVStore implements Store as JSON documents in a KV.
type KVStore struct {
	kv storage.KV
}

// NewKVStore creates a championship store.
func NewKVStore(kv storage.KV) *KVStore {
	return &KVStore{kv: kv}
}

// Calendar returns the season calendar, writing the default on first read.
// POST: len(result) == domain.SeasonSlots
func (s *KVStore) Calendar(ctx context.Context) (domain.Calendar, error) {
	raw, ok, err := s.kv.Get(ctx, KeyCalendar)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if !ok {
		cal := domain.DefaultCalendar()
		if err := s.SaveCalendar(ctx, cal); err != nil {
			return nil, err
		}
		return cal, nil
	}
	var cal domain.Calendar
	if err := json.Unmarshal([]byte(raw), &cal); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	// Short calendars are padded with placeholder slots.
	def := domain.DefaultCalendar()
	if len(cal) < domain.SeasonSlots {
		cal = append(cal, def[len(cal):]...)
	}
	return cal[:domain.SeasonSlots], nil
}

// SaveCalendar validates and stores cal.
func (s *KVStore) SaveCalendar(ctx context.Context, cal domain.Calendar) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(cal)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyCalendar, string(b)); err != nil {
		return fmt.Errorf("save calendar: %w", err)
	}
	return nil
}

// Winners returns the winner grid; an unset grid is empty.
func (s *KVStore) Winners(ctx context.Context) (domain.WinnerGrid, error) {
	raw, ok, err := s.kv.Get(ctx, KeyWinners)
	if err != nil {
		return nil, fmt.Errorf("load winners: %w", err)
	}
	grid := domain.WinnerGrid{}
	if !ok || raw == "" {
		return grid, nil
	}
	if err := json.Unmarshal([]byte(raw), &grid); err != nil {
		return nil, fmt.Errorf("decode winners: %w", err)
	}
	return grid, nil
}

// SaveWinners stores grid.
func (s *KVStore) SaveWinners(ctx context.Context, grid domain.WinnerGrid) error {
	b, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyWinners, string(b)); err != nil {
		return fmt.Errorf("save winners: %w", err)
	}
	return nil
}
