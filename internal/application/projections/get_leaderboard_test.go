package projections

import (
	"context"
	"errors"
	"testing"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

func leaderboardDeps(st settings.Settings) GetLeaderboardDeps {
	return GetLeaderboardDeps{Results: clubResults(), Members: clubMembers(), Settings: fixedSettings{st: st}}
}

func findBoard(t *testing.T, res GetLeaderboardResult, distance, gender string) []LeaderRow {
	t.Helper()
	for _, b := range res.Boards {
		if b.Distance != distance {
			continue
		}
		for _, g := range b.Genders {
			if g.Gender == gender {
				return g.Leaders
			}
		}
	}
	t.Fatalf("no %s %s board", distance, gender)
	return nil
}

func TestQueryGetLeaderboard_AllTime(t *testing.T) {
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{}, leaderboardDeps(settings.Defaults()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Boards) != len(result.Distances) {
		t.Fatalf("boards=%d want %d", len(res.Boards), len(result.Distances))
	}
	if len(res.Seasons) != 3 || res.Seasons[0] != 2026 {
		t.Errorf("seasons=%v", res.Seasons)
	}

	female5k := findBoard(t, res, result.Distance5K, member.GenderFemale)
	if len(female5k) != 2 {
		t.Fatalf("female 5k=%+v", female5k)
	}
	if female5k[0].Category != category.Senior || female5k[0].Name != "Amy Pond" || !female5k[0].Ghosted {
		t.Errorf("senior leader=%+v want ghosted Amy Pond", female5k[0])
	}
	if female5k[1].Category != "V40" || female5k[1].TimeDisplay != "00:21:30" || female5k[1].Ghosted {
		t.Errorf("V40 leader=%+v", female5k[1])
	}

	if nb := findBoard(t, res, result.Distance5K, member.GenderNonBinary); nb == nil || len(nb) != 0 {
		t.Errorf("empty boards should be present and empty, got %v", nb)
	}
}

func TestQueryGetLeaderboard_Season(t *testing.T) {
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{Season: 2025, Distance: "5k", Gender: "f"}, leaderboardDeps(settings.Defaults()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Boards) != 1 || len(res.Boards[0].Genders) != 1 {
		t.Fatalf("boards=%+v", res.Boards)
	}
	leaders := res.Boards[0].Genders[0].Leaders
	if len(leaders) != 1 || leaders[0].TimeDisplay != "00:22:10" {
		t.Errorf("2025 leaders=%+v", leaders)
	}
	if len(res.Seasons) != 3 {
		t.Error("seasons list covers all results, not just the selected one")
	}
}

func TestQueryGetLeaderboard_FiveYearBands(t *testing.T) {
	st := settings.Defaults()
	st.AgeMode = category.Mode5Year
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{Distance: result.Distance10K, Gender: member.GenderMale}, leaderboardDeps(st))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaders := res.Boards[0].Genders[0].Leaders
	if len(leaders) != 1 || leaders[0].Category != "V55" {
		t.Errorf("leaders=%+v want John Roe in V55", leaders)
	}
}

func TestQueryGetLeaderboard_VisibleDistances(t *testing.T) {
	st := settings.Defaults()
	st.VisibleDistances = []string{result.Distance10K, result.Distance5K}
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{}, leaderboardDeps(st))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Boards) != 2 || res.Boards[0].Distance != result.Distance5K || res.Boards[1].Distance != result.Distance10K {
		t.Errorf("boards should follow canonical order: %+v", res.Boards)
	}

	_, err = QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{Distance: "marathon"}, leaderboardDeps(st))
	if !errors.Is(err, ErrDistanceHidden) {
		t.Errorf("hidden distance: err=%v", err)
	}
	_, err = QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{Gender: "robot"}, leaderboardDeps(st))
	if !errors.Is(err, member.ErrInvalidGender) {
		t.Errorf("bad gender: err=%v", err)
	}
}

func TestQueryGetLeaderboard_EmptyAfterWipe(t *testing.T) {
	deps := leaderboardDeps(settings.Defaults())
	deps.Results = lister[result.RaceResult]{}
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range res.Boards {
		for _, g := range b.Genders {
			if len(g.Leaders) != 0 {
				t.Errorf("%s %s has leaders after wipe", b.Distance, g.Gender)
			}
		}
	}
}

func TestQueryGetLeaderboard_LogoFallback(t *testing.T) {
	st := settings.Defaults()
	st.LogoURL = "ftp://example.test/logo.png"
	res, err := QueryGetLeaderboard(context.Background(), GetLeaderboardQuery{}, leaderboardDeps(st))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.LogoURL != settings.DefaultLogoURL {
		t.Errorf("logo=%q want default", res.LogoURL)
	}
}
