package projections

import (
	"context"
	"fmt"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/leaderboard"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// GetLeaderboardQuery selects what the public board shows. Season 0 is
// all-time. An empty Distance or Gender means every visible one.
type GetLeaderboardQuery struct {
	Season   int
	Distance string
	Gender   string
}

// LeaderRow is one category winner as rendered.
type LeaderRow struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	TimeDisplay string `json:"time_display"`
	RaceDate    string `json:"race_date"`
	Location    string `json:"location"`
	// Ghosted marks runners who have left the club.
	Ghosted bool `json:"ghosted"`
}

// GenderBoard holds the leaders for one gender.
type GenderBoard struct {
	Gender  string      `json:"gender"`
	Leaders []LeaderRow `json:"leaders"`
}

// DistanceBoard holds every gender board for one distance.
type DistanceBoard struct {
	Distance string        `json:"distance"`
	Genders  []GenderBoard `json:"genders"`
}

// GetLeaderboardResult is the public leaderboard page.
type GetLeaderboardResult struct {
	Season              int             `json:"season"`
	Seasons             []int           `json:"seasons"`
	AgeMode             category.Mode   `json:"age_mode"`
	Boards              []DistanceBoard `json:"boards"`
	LogoURL             string          `json:"logo_url"`
	ClubNotes           string          `json:"club_notes,omitempty"`
	ShowChampionshipTab bool            `json:"show_championship_tab"`
}

// GetLeaderboardDeps holds dependencies for QueryGetLeaderboard.
type GetLeaderboardDeps struct {
	Results  ResultLister
	Members  MemberLister
	Settings SettingsLoader
}

// ErrDistanceHidden is returned when a hidden or unknown distance is asked for.
var ErrDistanceHidden = fmt.Errorf("%w or is hidden", result.ErrUnknownDistance)

// QueryGetLeaderboard builds the category-leader boards.
// PRE: Distance, when set, is a visible distance
// POST: Boards follow the canonical distance order and contain only visible
// distances; every gender board is present even when empty
// INVARIANT: settings are loaded once and used for the whole render
func QueryGetLeaderboard(ctx context.Context, query GetLeaderboardQuery, deps GetLeaderboardDeps) (GetLeaderboardResult, error) {
	st, err := deps.Settings.Load(ctx)
	if err != nil {
		return GetLeaderboardResult{}, err
	}
	all, err := deps.Results.List(ctx)
	if err != nil {
		return GetLeaderboardResult{}, err
	}
	members, err := deps.Members.List(ctx)
	if err != nil {
		return GetLeaderboardResult{}, err
	}

	distances, err := boardDistances(st, query.Distance)
	if err != nil {
		return GetLeaderboardResult{}, err
	}
	genders := member.Genders
	if query.Gender != "" {
		g := member.NormalizeGender(query.Gender)
		if !member.ValidGender(g) {
			return GetLeaderboardResult{}, member.ErrInvalidGender
		}
		genders = []string{g}
	}

	left := make(map[string]bool)
	for _, m := range members {
		if !m.IsActive() {
			left[m.Name] = true
		}
	}

	season := leaderboard.FilterSeason(all, query.Season)
	out := GetLeaderboardResult{
		Season:              query.Season,
		Seasons:             leaderboard.Seasons(all),
		AgeMode:             st.AgeMode,
		Boards:              make([]DistanceBoard, 0, len(distances)),
		LogoURL:             st.EffectiveLogoURL(),
		ClubNotes:           st.ClubNotes,
		ShowChampionshipTab: st.ShowChampionshipTab,
	}
	for _, d := range distances {
		board := DistanceBoard{Distance: d, Genders: make([]GenderBoard, 0, len(genders))}
		for _, g := range genders {
			gb := GenderBoard{Gender: g, Leaders: []LeaderRow{}}
			for _, l := range leaderboard.ComputeLeaders(season, d, g, st.AgeMode) {
				gb.Leaders = append(gb.Leaders, LeaderRow{
					Category:    l.Category,
					Name:        l.Result.Name,
					TimeDisplay: l.Result.TimeDisplay,
					RaceDate:    l.Result.RaceDate,
					Location:    l.Result.Location,
					Ghosted:     left[l.Result.Name],
				})
			}
			board.Genders = append(board.Genders, gb)
		}
		out.Boards = append(out.Boards, board)
	}
	return out, nil
}

func boardDistances(st settings.Settings, want string) ([]string, error) {
	if want == "" {
		var visible []string
		for _, d := range result.Distances {
			if st.DistanceVisible(d) {
				visible = append(visible, d)
			}
		}
		return visible, nil
	}
	d, ok := result.NormalizeDistance(want)
	if !ok || !st.DistanceVisible(d) {
		return nil, ErrDistanceHidden
	}
	return []string{d}, nil
}
