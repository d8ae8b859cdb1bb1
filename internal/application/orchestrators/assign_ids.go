package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

// RecordRewriter is a collection that can be listed and rewritten in one step.
type RecordRewriter[T any] interface {
	List(ctx context.Context) ([]T, error)
	ReplaceAll(ctx context.Context, vs []T) error
}

// AssignIDsDeps holds dependencies for ExecuteAssignIDs. Every collection
// is required.
type AssignIDsDeps struct {
	Members      RecordRewriter[member.Member]
	Results      RecordRewriter[result.RaceResult]
	Pending      RecordRewriter[result.Pending]
	ChampPending RecordRewriter[championship.Pending]
	Standings    RecordRewriter[championship.Standing]
	GenerateID   func() string
}

// AssignIDsResult counts the records that received an id.
type AssignIDsResult struct {
	Members      int `json:"members"`
	Results      int `json:"results"`
	Pending      int `json:"pending"`
	ChampPending int `json:"champ_pending"`
	Standings    int `json:"standings"`
}

// Total is the number of records changed across all collections.
func (r AssignIDsResult) Total() int {
	return r.Members + r.Results + r.Pending + r.ChampPending + r.Standings
}

// ExecuteAssignIDs gives every stored record without an id a fresh one.
// Records written by older versions of the app carry no id and cannot be
// edited, approved or deleted until this has run. Collections are handled
// one at a time; on error the counts cover what was already rewritten.
// POST: every record in every collection has a non-empty ID
func ExecuteAssignIDs(ctx context.Context, deps AssignIDsDeps) (AssignIDsResult, error) {
	var out AssignIDsResult
	var err error

	if out.Members, err = assignMissing(ctx, deps.Members, func(m *member.Member) *string { return &m.ID }, deps.GenerateID); err != nil {
		return out, fmt.Errorf("members: %w", err)
	}
	if out.Results, err = assignMissing(ctx, deps.Results, func(r *result.RaceResult) *string { return &r.ID }, deps.GenerateID); err != nil {
		return out, fmt.Errorf("results: %w", err)
	}
	if out.Pending, err = assignMissing(ctx, deps.Pending, func(p *result.Pending) *string { return &p.ID }, deps.GenerateID); err != nil {
		return out, fmt.Errorf("pending results: %w", err)
	}
	if out.ChampPending, err = assignMissing(ctx, deps.ChampPending, func(p *championship.Pending) *string { return &p.ID }, deps.GenerateID); err != nil {
		return out, fmt.Errorf("championship pending: %w", err)
	}
	if out.Standings, err = assignMissing(ctx, deps.Standings, func(s *championship.Standing) *string { return &s.ID }, deps.GenerateID); err != nil {
		return out, fmt.Errorf("championship standings: %w", err)
	}

	if out.Total() > 0 {
		slog.Info("ids_assigned", "members", out.Members, "results", out.Results,
			"pending", out.Pending, "champ_pending", out.ChampPending, "standings", out.Standings)
	}
	return out, nil
}

// assignMissing fills empty ids in one collection and rewrites it only when
// something changed. It returns 0 when the rewrite fails.
func assignMissing[T any](ctx context.Context, store RecordRewriter[T], id func(*T) *string, generate func() string) (int, error) {
	all, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range all {
		if p := id(&all[i]); *p == "" {
			*p = generate()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if err := store.ReplaceAll(ctx, all); err != nil {
		return 0, err
	}
	return n, nil
}
