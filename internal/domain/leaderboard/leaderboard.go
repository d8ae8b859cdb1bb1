// Package leaderboard selects category-winning times from approved results.
package leaderboard

import (
	"sort"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/result"
)

// Leader is the fastest result in one age category.
type Leader struct {
	Category string            `json:"category"`
	Result   result.RaceResult `json:"result"`
}

// ComputeLeaders returns one leader per category for the given distance and
// gender, ordered Senior first then veteran bands ascending.
// Ties on seconds keep the result that appears first in results.
// POST: never nil; at most one entry per category
func ComputeLeaders(results []result.RaceResult, distance, gender string, mode category.Mode) []Leader {
	best := map[string]int{}
	var order []string
	for i, r := range results {
		if r.Distance != distance || r.Gender != gender {
			continue
		}
		cat := category.ClassifyOrUnknown(r.DOB, r.RaceDate, mode)
		j, seen := best[cat]
		if !seen {
			order = append(order, cat)
			best[cat] = i
			continue
		}
		if r.EffectiveSeconds() < results[j].EffectiveSeconds() {
			best[cat] = i
		}
	}

	leaders := make([]Leader, 0, len(order))
	for _, cat := range order {
		leaders = append(leaders, Leader{Category: cat, Result: results[best[cat]]})
	}
	sort.SliceStable(leaders, func(a, b int) bool {
		return category.Less(leaders[a].Category, leaders[b].Category)
	})
	return leaders
}

// ComputePBs keeps each runner's fastest result per distance. Ties keep the
// earlier record; output follows the order of first appearance.
func ComputePBs(results []result.RaceResult) []result.RaceResult {
	type key struct{ name, distance string }
	best := map[key]int{}
	var order []key
	for i, r := range results {
		k := key{r.Name, r.Distance}
		j, seen := best[k]
		if !seen {
			order = append(order, k)
			best[k] = i
			continue
		}
		if r.EffectiveSeconds() < results[j].EffectiveSeconds() {
			best[k] = i
		}
	}
	pbs := make([]result.RaceResult, 0, len(order))
	for _, k := range order {
		pbs = append(pbs, results[best[k]])
	}
	return pbs
}

// FilterSeason keeps results whose race date falls in year. A year of 0
// means all-time and returns results unchanged.
func FilterSeason(results []result.RaceResult, year int) []result.RaceResult {
	if year == 0 {
		return results
	}
	out := make([]result.RaceResult, 0, len(results))
	for _, r := range results {
		if r.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// Seasons lists the distinct race years, newest first.
func Seasons(results []result.RaceResult) []int {
	seen := map[int]bool{}
	years := []int{}
	for _, r := range results {
		y := r.Year()
		if y == 0 || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
