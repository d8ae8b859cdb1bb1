package projections

import (
	"context"
	"errors"

	"autokudos/internal/domain/championship"
)

// ErrChampionshipHidden is returned to the public when the championship
// tab is switched off.
var ErrChampionshipHidden = errors.New("championship standings are not published")

// GetStandingsResult is the championship page.
type GetStandingsResult struct {
	Table    []championship.Row      `json:"table"`
	Log      []championship.Standing `json:"log"`
	Calendar championship.Calendar   `json:"calendar"`
}

// GetStandingsDeps holds dependencies for QueryGetStandings.
type GetStandingsDeps struct {
	Standings StandingLister
	Season    SeasonReader
	// Settings is consulted only for public reads.
	Settings SettingsLoader
}

// QueryGetStandings returns the standings table, the master log (newest
// race first) and the calendar. Public reads fail with
// ErrChampionshipHidden while the tab is off.
func QueryGetStandings(ctx context.Context, public bool, deps GetStandingsDeps) (GetStandingsResult, error) {
	if public {
		st, err := deps.Settings.Load(ctx)
		if err != nil {
			return GetStandingsResult{}, err
		}
		if !st.ShowChampionshipTab {
			return GetStandingsResult{}, ErrChampionshipHidden
		}
	}
	entries, err := deps.Standings.List(ctx)
	if err != nil {
		return GetStandingsResult{}, err
	}
	cal, err := deps.Season.Calendar(ctx)
	if err != nil {
		return GetStandingsResult{}, err
	}
	table := championship.Table(entries)
	if table == nil {
		table = []championship.Row{}
	}
	championship.SortLog(entries)
	if entries == nil {
		entries = []championship.Standing{}
	}
	return GetStandingsResult{Table: table, Log: entries, Calendar: cal}, nil
}
