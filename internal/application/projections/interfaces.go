package projections

import (
	"context"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// ResultLister reads approved results in insertion order.
type ResultLister interface {
	List(ctx context.Context) ([]result.RaceResult, error)
}

// MemberLister reads the member list.
type MemberLister interface {
	List(ctx context.Context) ([]member.Member, error)
}

// PendingLister reads the submission queue.
type PendingLister interface {
	List(ctx context.Context) ([]result.Pending, error)
}

// ChampPendingLister reads the championship submission queue.
type ChampPendingLister interface {
	List(ctx context.Context) ([]championship.Pending, error)
}

// StandingLister reads the championship points log.
type StandingLister interface {
	List(ctx context.Context) ([]championship.Standing, error)
}

// SettingsLoader loads the current settings record.
type SettingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// SeasonReader reads the championship calendar and winner grid.
type SeasonReader interface {
	Calendar(ctx context.Context) (championship.Calendar, error)
	Winners(ctx context.Context) (championship.WinnerGrid, error)
}
