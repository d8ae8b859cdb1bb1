package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

// MemberLister reads the member list.
type MemberLister interface {
	List(ctx context.Context) ([]member.Member, error)
}

// MemberStore is the member collection as used by member administration.
type MemberStore interface {
	MemberLister
	Append(ctx context.Context, m member.Member) error
	Replace(ctx context.Context, m member.Member) error
	Remove(ctx context.Context, id string) error
}

// ResultStore is the approved-results collection.
type ResultStore interface {
	List(ctx context.Context) ([]result.RaceResult, error)
	Append(ctx context.Context, r result.RaceResult) error
	Replace(ctx context.Context, r result.RaceResult) error
	Remove(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, rs []result.RaceResult) error
	Clear(ctx context.Context) error
}

// PendingStore is the pending-submission queue.
type PendingStore interface {
	List(ctx context.Context) ([]result.Pending, error)
	Append(ctx context.Context, p result.Pending) error
	Remove(ctx context.Context, id string) error
}

// ChampPendingStore is the championship submission queue.
type ChampPendingStore interface {
	List(ctx context.Context) ([]championship.Pending, error)
	Append(ctx context.Context, p championship.Pending) error
	Remove(ctx context.Context, id string) error
}

// StandingStore is the append-only championship points log.
type StandingStore interface {
	List(ctx context.Context) ([]championship.Standing, error)
	Append(ctx context.Context, s championship.Standing) error
	Clear(ctx context.Context) error
}

// StandingsPublisher mirrors the standings table somewhere public.
type StandingsPublisher interface {
	PublishStandings(ctx context.Context, rows []championship.Row) error
}

// reviewQueue is the part of a pending queue needed to claim one entry.
type reviewQueue[T any] interface {
	Append(ctx context.Context, v T) error
	Remove(ctx context.Context, id string) error
}

// claimPending takes entry id off the queue before store runs, and puts the
// unedited entry back if store fails. A failed approval therefore leaves the
// queue retryable without having written a record.
func claimPending[T any](ctx context.Context, q reviewQueue[T], id string, entry T, store func() error) error {
	if err := q.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove pending: %w", err)
	}
	if err := store(); err != nil {
		if rerr := q.Append(ctx, entry); rerr != nil {
			slog.Error("pending_restore_failed", "pending_id", id, "error", rerr)
		}
		return err
	}
	return nil
}
