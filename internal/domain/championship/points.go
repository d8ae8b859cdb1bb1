package championship

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/racetime"
)

// PointsPlaces is the number of decimal places points are rounded to.
const PointsPlaces = 2

// Errors that block a points calculation.
var (
	ErrNoWinnerTime   = errors.New("no category winner time recorded for this race")
	ErrZeroRunnerTime = errors.New("runner time must be greater than zero")
)

// ComputePoints scores a runner against the category winner:
// winner/runner × 100, rounded to two places. A winner slower than the
// runner yields more than 100 points; that is accepted, not clamped.
// PRE: both displays decode with racetime.Parse
// POST: returns points, or a *racetime.ParseError / ErrZeroRunnerTime
func ComputePoints(runnerDisplay, winnerDisplay string) (float64, error) {
	runner, err := racetime.Parse(runnerDisplay)
	if err != nil {
		return 0, err
	}
	winner, err := racetime.Parse(winnerDisplay)
	if err != nil {
		return 0, err
	}
	if runner == 0 {
		return 0, ErrZeroRunnerTime
	}
	pts := decimal.NewFromInt(int64(winner)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(runner)), PointsPlaces)
	f, _ := pts.Float64()
	return f, nil
}

// Score is the outcome of scoring one championship entry. Category and
// GridKey are set even when scoring is blocked.
type Score struct {
	Category   string  `json:"category"`
	GridKey    string  `json:"grid_key"`
	WinnerTime string  `json:"winner_time,omitempty"`
	Points     float64 `json:"points"`
}

// ScoreEntry scores a runner's time at race against the winner grid using
// the runner's five-year championship category on the race date.
// POST: returns ErrNoWinnerTime when the grid has no usable time, a
// *category.Error for bad dates, or a *racetime.ParseError
func ScoreEntry(grid WinnerGrid, race, gender, dob, raceDate, runnerTime string) (Score, error) {
	cat, err := category.Championship(dob, raceDate)
	if err != nil {
		return Score{}, err
	}
	s := Score{Category: cat, GridKey: GridKey(gender, cat)}
	winner, ok := grid.Lookup(race, gender, cat)
	if !ok {
		return s, ErrNoWinnerTime
	}
	s.WinnerTime = winner
	pts, err := ComputePoints(runnerTime, winner)
	if err != nil {
		return s, err
	}
	s.Points = pts
	return s, nil
}

// Row is one runner's line in the standings table.
type Row struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Races int     `json:"races"`
	Best  float64 `json:"best"`
}

// Table totals points per runner, highest total first, then by name.
func Table(entries []Standing) []Row {
	totals := map[string]decimal.Decimal{}
	rows := map[string]*Row{}
	var names []string
	for _, e := range entries {
		r, ok := rows[e.Name]
		if !ok {
			r = &Row{Name: e.Name}
			rows[e.Name] = r
			names = append(names, e.Name)
		}
		totals[e.Name] = totals[e.Name].Add(decimal.NewFromFloat(e.Points))
		r.Races++
		if e.Points > r.Best {
			r.Best = e.Points
		}
	}
	out := make([]Row, 0, len(names))
	for _, n := range names {
		r := rows[n]
		r.Total, _ = totals[n].Round(PointsPlaces).Float64()
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortLog orders standings entries for the master log: newest date first,
// then name.
func SortLog(entries []Standing) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Name < entries[j].Name
	})
}
