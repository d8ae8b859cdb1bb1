package projections

import (
	"context"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// lister serves a fixed slice for any of the List-shaped dependencies.
type lister[T any] struct {
	items []T
	err   error
}

func (l lister[T]) List(context.Context) ([]T, error) {
	if l.err != nil {
		return nil, l.err
	}
	return append([]T(nil), l.items...), nil
}

type fixedSettings struct{ st settings.Settings }

func (f fixedSettings) Load(context.Context) (settings.Settings, error) { return f.st, nil }

type fixedSeason struct {
	cal  championship.Calendar
	grid championship.WinnerGrid
}

func (f fixedSeason) Calendar(context.Context) (championship.Calendar, error) { return f.cal, nil }

func (f fixedSeason) Winners(context.Context) (championship.WinnerGrid, error) { return f.grid, nil }

func clubMembers() lister[member.Member] {
	return lister[member.Member]{items: []member.Member{
		{ID: "m1", Name: "Jane Doe", Gender: member.GenderFemale, DOB: "1985-06-01", Status: member.StatusActive},
		{ID: "m2", Name: "Amy Pond", Gender: member.GenderFemale, DOB: "1995-03-10", Status: member.StatusLeft},
		{ID: "m3", Name: "John Roe", Gender: member.GenderMale, DOB: "1970-01-01", Status: member.StatusActive},
		{ID: "m4", Name: "Sam Lee", Gender: member.GenderNonBinary, DOB: "1990-09-09"},
	}}
}

func clubResults() lister[result.RaceResult] {
	return lister[result.RaceResult]{items: []result.RaceResult{
		{ID: "r1", Name: "Jane Doe", Gender: member.GenderFemale, DOB: "1985-06-01", Distance: result.Distance5K, TimeSeconds: 1330, TimeDisplay: "00:22:10", Location: "Park", RaceDate: "2025-05-03"},
		{ID: "r2", Name: "Amy Pond", Gender: member.GenderFemale, DOB: "1995-03-10", Distance: result.Distance5K, TimeSeconds: 1250, TimeDisplay: "00:20:50", Location: "Park", RaceDate: "2024-05-04"},
		{ID: "r3", Name: "Jane Doe", Gender: member.GenderFemale, DOB: "1985-06-01", Distance: result.Distance5K, TimeSeconds: 1290, TimeDisplay: "00:21:30", Location: "Beach", RaceDate: "2026-04-11"},
		{ID: "r4", Name: "John Roe", Gender: member.GenderMale, DOB: "1970-01-01", Distance: result.Distance10K, TimeSeconds: 2500, TimeDisplay: "00:41:40", Location: "Town", RaceDate: "2025-09-14"},
		{ID: "r5", Name: "Jane Doe", Gender: member.GenderFemale, DOB: "1985-06-01", Distance: result.DistanceMarathon, TimeSeconds: 12600, TimeDisplay: "03:30:00", Location: "London", RaceDate: "2025-04-27"},
	}}
}

func defaultSettings() settings.Settings { return settings.Defaults() }
