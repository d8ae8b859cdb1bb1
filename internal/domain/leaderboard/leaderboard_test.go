package leaderboard_test

import (
	"testing"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/leaderboard"
	"autokudos/internal/domain/result"
)

func res(id, name, gender, dob, dist string, secs int, date string) result.RaceResult {
	return result.RaceResult{ID: id, Name: name, Gender: gender, DOB: dob, Distance: dist, TimeSeconds: secs, RaceDate: date}
}

func sampleResults() []result.RaceResult {
	return []result.RaceResult{
		res("1", "Ann", "Female", "1990-05-01", "5k", 1300, "2025-04-01"), // Senior
		res("2", "Bea", "Female", "1980-01-01", "5k", 1250, "2025-04-01"), // V40
		res("3", "Cat", "Female", "1991-01-01", "5k", 1200, "2025-05-01"), // Senior, faster
		res("4", "Dee", "Female", "1960-01-01", "5k", 1500, "2025-05-01"), // V60
		res("5", "Eve", "Female", "1983-01-01", "5k", 1250, "2025-06-01"), // V40 tie with Bea
		res("6", "Fay", "Female", "1990-01-01", "10k", 2400, "2025-06-01"),
		res("7", "Gus", "Male", "1990-01-01", "5k", 1000, "2025-06-01"),
		res("8", "Hal", "Female", "", "5k", 1100, "2025-06-01"), // Unknown
	}
}

func TestComputeLeaders(t *testing.T) {
	leaders := leaderboard.ComputeLeaders(sampleResults(), "5k", "Female", category.Mode10Year)

	want := []struct{ cat, id string }{
		{"Senior", "3"},
		{"V40", "2"},
		{"V60", "4"},
		{"Unknown", "8"},
	}
	if len(leaders) != len(want) {
		t.Fatalf("got %d leaders, want %d: %+v", len(leaders), len(want), leaders)
	}
	for i, w := range want {
		if leaders[i].Category != w.cat || leaders[i].Result.ID != w.id {
			t.Errorf("leader[%d] = %s/%s, want %s/%s", i, leaders[i].Category, leaders[i].Result.ID, w.cat, w.id)
		}
	}
}

func TestComputeLeadersIsMinimumPerCategory(t *testing.T) {
	all := sampleResults()
	for _, mode := range []category.Mode{category.Mode10Year, category.Mode5Year} {
		leaders := leaderboard.ComputeLeaders(all, "5k", "Female", mode)
		seen := map[string]bool{}
		for _, l := range leaders {
			if seen[l.Category] {
				t.Fatalf("category %s repeated", l.Category)
			}
			seen[l.Category] = true
			for _, r := range all {
				if r.Distance != "5k" || r.Gender != "Female" {
					continue
				}
				if category.ClassifyOrUnknown(r.DOB, r.RaceDate, mode) == l.Category && r.TimeSeconds < l.Result.TimeSeconds {
					t.Errorf("%s leader %d slower than %d", l.Category, l.Result.TimeSeconds, r.TimeSeconds)
				}
			}
		}
	}
}

func TestComputeLeadersEmpty(t *testing.T) {
	leaders := leaderboard.ComputeLeaders(nil, "Marathon", "Male", category.Mode10Year)
	if leaders == nil || len(leaders) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", leaders)
	}
}

func TestComputePBs(t *testing.T) {
	all := []result.RaceResult{
		res("1", "Ann", "Female", "", "5k", 1300, ""),
		res("2", "Ann", "Female", "", "10k", 2700, ""),
		res("3", "Ann", "Female", "", "5k", 1290, ""),
		res("4", "Ann", "Female", "", "5k", 1290, ""),
		res("5", "Bob", "Male", "", "5k", 1100, ""),
	}
	pbs := leaderboard.ComputePBs(all)
	if len(pbs) != 3 {
		t.Fatalf("len = %d, want 3", len(pbs))
	}
	if pbs[0].ID != "3" || pbs[1].ID != "2" || pbs[2].ID != "5" {
		t.Errorf("pbs = %s,%s,%s; want 3,2,5", pbs[0].ID, pbs[1].ID, pbs[2].ID)
	}
}

func TestSeasons(t *testing.T) {
	all := []result.RaceResult{
		{RaceDate: "2023-01-01"}, {RaceDate: "2025-01-01"}, {RaceDate: "bad"}, {RaceDate: "2023-06-01"},
	}
	years := leaderboard.Seasons(all)
	if len(years) != 2 || years[0] != 2025 || years[1] != 2023 {
		t.Errorf("Seasons = %v", years)
	}
	if got := leaderboard.FilterSeason(all, 2023); len(got) != 2 {
		t.Errorf("FilterSeason(2023) len = %d", len(got))
	}
	if got := leaderboard.FilterSeason(all, 0); len(got) != 4 {
		t.Errorf("FilterSeason(all-time) len = %d", len(got))
	}
}
