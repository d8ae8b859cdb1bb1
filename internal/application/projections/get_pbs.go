package projections

import (
	"context"
	"sort"
	"strings"

	"autokudos/internal/domain/leaderboard"
	"autokudos/internal/domain/result"
)

// PersonalBest is a runner's fastest time at one distance.
type PersonalBest struct {
	Distance    string `json:"distance"`
	TimeDisplay string `json:"time_display"`
	RaceDate    string `json:"race_date"`
	Location    string `json:"location"`
}

// GetPBsResult lists one runner's personal bests.
type GetPBsResult struct {
	Name string         `json:"name"`
	PBs  []PersonalBest `json:"pbs"`
}

// QueryGetPBs returns the personal bests of the runner named exactly name,
// in canonical distance order.
func QueryGetPBs(ctx context.Context, name string, results ResultLister) (GetPBsResult, error) {
	name = strings.TrimSpace(name)
	all, err := results.List(ctx)
	if err != nil {
		return GetPBsResult{}, err
	}
	var mine []result.RaceResult
	for _, r := range all {
		if r.Name == name {
			mine = append(mine, r)
		}
	}
	pbs := leaderboard.ComputePBs(mine)
	sort.SliceStable(pbs, func(i, j int) bool {
		return distanceRank(pbs[i].Distance) < distanceRank(pbs[j].Distance)
	})

	out := GetPBsResult{Name: name, PBs: make([]PersonalBest, 0, len(pbs))}
	for _, r := range pbs {
		out.PBs = append(out.PBs, PersonalBest{
			Distance:    r.Distance,
			TimeDisplay: r.TimeDisplay,
			RaceDate:    r.RaceDate,
			Location:    r.Location,
		})
	}
	return out, nil
}

func distanceRank(d string) int {
	for i, v := range result.Distances {
		if v == d {
			return i
		}
	}
	return len(result.Distances)
}
