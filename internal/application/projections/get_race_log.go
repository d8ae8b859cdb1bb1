package projections

import (
	"context"
	"sort"

	"autokudos/internal/application/listutil"
	"autokudos/internal/domain/result"
)

// RaceLogSortColumns are the columns the race log can be sorted by.
var RaceLogSortColumns = []string{"name", "distance", "time", "race_date"}

// RaceLogFilters are the exact-match filters the race log accepts.
var RaceLogFilters = []string{"distance", "gender", "season"}

// GetRaceLogResult is one page of the admin race log.
type GetRaceLogResult struct {
	Results []result.RaceResult `json:"results"`
	Page    listutil.PageInfo   `json:"page"`
}

// QueryGetRaceLog lists approved results for editing. Without an explicit
// sort the newest race comes first.
// POST: Results holds at most PerPage rows
func QueryGetRaceLog(ctx context.Context, params listutil.Params, results ResultLister) (GetRaceLogResult, error) {
	all, err := results.List(ctx)
	if err != nil {
		return GetRaceLogResult{}, err
	}

	rows := make([]result.RaceResult, 0, len(all))
	for _, r := range all {
		if d := params.Filters["distance"]; d != "" {
			if canonical, _ := result.NormalizeDistance(d); r.Distance != canonical {
				continue
			}
		}
		if g := params.Filters["gender"]; g != "" && r.Gender != g {
			continue
		}
		if s := params.Filters["season"]; s != "" && !sameSeason(r, s) {
			continue
		}
		if !listutil.Matches(params.Search, r.Name, r.Location) {
			continue
		}
		rows = append(rows, r)
	}

	sortRaceLog(rows, params.Sort, params.Desc)
	page, info := listutil.Paginate(rows, params.Page, params.PerPage)
	return GetRaceLogResult{Results: page, Page: info}, nil
}

func sortRaceLog(rows []result.RaceResult, col string, desc bool) {
	var less func(a, b result.RaceResult) bool
	switch col {
	case "name":
		less = func(a, b result.RaceResult) bool { return a.Name < b.Name }
	case "distance":
		less = func(a, b result.RaceResult) bool { return distanceRank(a.Distance) < distanceRank(b.Distance) }
	case "time":
		less = func(a, b result.RaceResult) bool { return a.EffectiveSeconds() < b.EffectiveSeconds() }
	case "race_date":
		less = func(a, b result.RaceResult) bool { return a.RaceDate < b.RaceDate }
	default:
		less = func(a, b result.RaceResult) bool { return a.RaceDate > b.RaceDate }
		desc = false
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func sameSeason(r result.RaceResult, season string) bool {
	if len(r.RaceDate) < 4 {
		return false
	}
	return r.RaceDate[:4] == season
}
