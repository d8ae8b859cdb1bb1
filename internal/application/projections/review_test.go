package projections

import (
	"context"
	"strings"
	"testing"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

func TestQueryGetSubmissionReview(t *testing.T) {
	deps := GetSubmissionReviewDeps{
		Pending: lister[result.Pending]{items: []result.Pending{
			{ID: "p1", Name: "Jane Doe", Distance: result.Distance5K, TimeDisplay: "21:00", RaceDate: "2026-04-11"},
			{ID: "p2", Name: " john roe", Distance: result.Distance10K, TimeDisplay: "40:00", RaceDate: "2026-04-18"},
			{ID: "p3", Name: "Stranger", Distance: result.Distance5K, TimeDisplay: "about 20", RaceDate: "2026-04-18"},
		}},
		Members: clubMembers(),
		Results: clubResults(),
	}
	got, err := QueryGetSubmissionReview(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("reviews=%d", len(got))
	}
	if !got[0].Matched || !got[0].Duplicate || got[0].TimeError != "" {
		t.Errorf("p1=%+v want matched duplicate", got[0])
	}
	if got[1].Matched || got[1].Suggested != "John Roe" || got[1].Duplicate {
		t.Errorf("p2=%+v want suggestion John Roe", got[1])
	}
	if got[2].Matched || got[2].Suggested != "" || got[2].TimeError == "" {
		t.Errorf("p3=%+v want unmatched with time error", got[2])
	}
}

func TestQueryGetChampionshipReview(t *testing.T) {
	grid := championship.WinnerGrid{}
	grid.Set("Spring 10k", member.GenderFemale, "V40", "00:36:00")
	deps := GetChampionshipReviewDeps{
		Pending: lister[championship.Pending]{items: []championship.Pending{
			{ID: "c1", Name: "Jane Doe", RaceName: "Spring 10k", TimeDisplay: "00:40:00", Date: "2026-04-12"},
			{ID: "c2", Name: "John Roe", RaceName: "Spring 10k", TimeDisplay: "00:38:00", Date: "2026-04-12"},
			{ID: "c3", Name: "Nobody", RaceName: "Spring 10k", TimeDisplay: "00:38:00", Date: "2026-04-12"},
			{ID: "c4", Name: "Jane Doe", RaceName: "Spring 10k", TimeDisplay: "soon", Date: "2026-04-12"},
		}},
		Members: clubMembers(),
		Season:  fixedSeason{grid: grid},
	}
	got, err := QueryGetChampionshipReview(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Blocked != "" || got[0].Points != 90 || got[0].Category != "V40" || got[0].WinnerTime != "00:36:00" {
		t.Errorf("c1=%+v", got[0])
	}
	if !strings.Contains(got[1].Blocked, "Male_V55") || got[1].Category != "V55" {
		t.Errorf("c2=%+v want blocked on Male_V55", got[1])
	}
	if got[2].Blocked == "" {
		t.Errorf("c3=%+v want blocked", got[2])
	}
	if got[3].Blocked == "" || got[3].Points != 0 {
		t.Errorf("c4=%+v want blocked on the time", got[3])
	}
}

func TestQueryGetStandings(t *testing.T) {
	standings := lister[championship.Standing]{items: []championship.Standing{
		{ID: "s1", Name: "John Roe", RaceName: "Spring 10k", Points: 95, Date: "2026-04-12"},
		{ID: "s2", Name: "Jane Doe", RaceName: "Spring 10k", Points: 90, Date: "2026-04-12"},
		{ID: "s3", Name: "Jane Doe", RaceName: "Summer 5k", Points: 100, Date: "2026-06-07"},
	}}
	deps := GetStandingsDeps{
		Standings: standings,
		Season:    fixedSeason{cal: championship.DefaultCalendar()},
		Settings:  fixedSettings{st: defaultSettings()},
	}
	got, err := QueryGetStandings(context.Background(), true, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Table) != 2 || got.Table[0].Name != "Jane Doe" || got.Table[0].Total != 190 || got.Table[0].Races != 2 {
		t.Errorf("table=%+v", got.Table)
	}
	if got.Log[0].ID != "s3" || got.Log[1].ID != "s2" || got.Log[2].ID != "s1" {
		t.Errorf("log order=%+v want newest first then name", got.Log)
	}
	if len(got.Calendar) != championship.SeasonSlots {
		t.Errorf("calendar=%d", len(got.Calendar))
	}
}

func TestQueryGetStandings_Hidden(t *testing.T) {
	st := defaultSettings()
	st.ShowChampionshipTab = false
	deps := GetStandingsDeps{
		Standings: lister[championship.Standing]{},
		Season:    fixedSeason{cal: championship.DefaultCalendar()},
		Settings:  fixedSettings{st: st},
	}
	if _, err := QueryGetStandings(context.Background(), true, deps); err != ErrChampionshipHidden {
		t.Errorf("public read: err=%v want ErrChampionshipHidden", err)
	}
	got, err := QueryGetStandings(context.Background(), false, deps)
	if err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if got.Table == nil || got.Log == nil {
		t.Error("empty standings should encode as empty lists")
	}
}
