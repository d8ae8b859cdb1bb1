package projections

import (
	"context"
	"errors"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
)

// ChampionshipReview is one pending championship entry with its computed
// score, or the reason it cannot be scored yet.
type ChampionshipReview struct {
	Pending    championship.Pending `json:"pending"`
	Category   string               `json:"category,omitempty"`
	WinnerTime string               `json:"winner_time,omitempty"`
	Points     float64              `json:"points"`
	Blocked    string               `json:"blocked,omitempty"`
}

// GetChampionshipReviewDeps holds dependencies for QueryGetChampionshipReview.
type GetChampionshipReviewDeps struct {
	Pending ChampPendingLister
	Members MemberLister
	Season  SeasonReader
}

// QueryGetChampionshipReview scores every pending entry the way approval
// would, without storing anything.
// POST: Blocked is set exactly when approval would fail
func QueryGetChampionshipReview(ctx context.Context, deps GetChampionshipReviewDeps) ([]ChampionshipReview, error) {
	queue, err := deps.Pending.List(ctx)
	if err != nil {
		return nil, err
	}
	members, err := deps.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	grid, err := deps.Season.Winners(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ChampionshipReview, 0, len(queue))
	for _, p := range queue {
		rv := ChampionshipReview{Pending: p}
		m, ok := member.FindByName(members, p.Name)
		if !ok {
			rv.Blocked = "runner is not a member"
			out = append(out, rv)
			continue
		}
		score, err := championship.ScoreEntry(grid, p.RaceName, m.Gender, m.DOB, p.Date, p.TimeDisplay)
		rv.Category, rv.WinnerTime = score.Category, score.WinnerTime
		switch {
		case errors.Is(err, championship.ErrNoWinnerTime):
			rv.Blocked = "no winner time set for " + score.GridKey
		case err != nil:
			rv.Blocked = err.Error()
		default:
			rv.Points = score.Points
		}
		out = append(out, rv)
	}
	return out, nil
}
