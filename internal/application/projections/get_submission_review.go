package projections

import (
	"context"

	"autokudos/internal/domain/member"
	"autokudos/internal/domain/racetime"
	"autokudos/internal/domain/result"
)

// SubmissionReview is one pending submission with reviewer hints.
type SubmissionReview struct {
	Pending result.Pending `json:"pending"`
	// Matched is true when the name is an exact member name.
	Matched bool `json:"matched"`
	// Suggested is a member whose name differs only in case or spacing.
	Suggested string `json:"suggested,omitempty"`
	Duplicate bool   `json:"duplicate"`
	TimeError string `json:"time_error,omitempty"`
}

// GetSubmissionReviewDeps holds dependencies for QueryGetSubmissionReview.
type GetSubmissionReviewDeps struct {
	Pending PendingLister
	Members MemberLister
	Results ResultLister
}

// QueryGetSubmissionReview annotates the pending queue for the reviewer.
// Nothing here changes state; suggestions are never applied automatically.
func QueryGetSubmissionReview(ctx context.Context, deps GetSubmissionReviewDeps) ([]SubmissionReview, error) {
	queue, err := deps.Pending.List(ctx)
	if err != nil {
		return nil, err
	}
	members, err := deps.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	results, err := deps.Results.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SubmissionReview, 0, len(queue))
	for _, p := range queue {
		rv := SubmissionReview{Pending: p}
		if _, ok := member.FindByName(members, p.Name); ok {
			rv.Matched = true
		} else if m, ok := member.SuggestByName(members, p.Name); ok {
			rv.Suggested = m.Name
		}
		name := p.Name
		if rv.Suggested != "" {
			name = rv.Suggested
		}
		rv.Duplicate = result.IsDuplicate(name, p.RaceDate, results)
		if _, err := racetime.Parse(p.TimeDisplay); err != nil {
			rv.TimeError = err.Error()
		}
		out = append(out, rv)
	}
	return out, nil
}
