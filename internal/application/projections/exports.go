package projections

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"autokudos/internal/domain/championship"
)

// CSV headers. Each matches the columns the corresponding import accepts,
// so an export can be edited and uploaded again.
var (
	MembersCSVHeader        = []string{"id", "name", "gender", "dob", "status"}
	ResultsCSVHeader        = []string{"id", "name", "gender", "dob", "distance", "time_display", "time_seconds", "location", "race_date"}
	StandingsCSVHeader      = []string{"id", "name", "race_name", "date", "time_display", "points", "category"}
	StandingsTableCSVHeader = []string{"position", "name", "total", "races", "best"}
)

// ExportMembersCSV writes every member as CSV.
func ExportMembersCSV(ctx context.Context, w io.Writer, members MemberLister) error {
	all, err := members.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(MembersCSVHeader); err != nil {
		return err
	}
	for _, m := range all {
		if err := cw.Write([]string{m.ID, m.Name, m.Gender, m.DOB, displayStatus(m)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportResultsCSV writes every approved result as CSV in store order.
func ExportResultsCSV(ctx context.Context, w io.Writer, results ResultLister) error {
	all, err := results.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsCSVHeader); err != nil {
		return err
	}
	for _, r := range all {
		row := []string{r.ID, r.Name, r.Gender, r.DOB, r.Distance, r.TimeDisplay,
			strconv.Itoa(r.TimeSeconds), r.Location, r.RaceDate}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportStandingsCSV writes the championship log, newest race first.
func ExportStandingsCSV(ctx context.Context, w io.Writer, standings StandingLister) error {
	all, err := standings.List(ctx)
	if err != nil {
		return err
	}
	championship.SortLog(all)
	cw := csv.NewWriter(w)
	if err := cw.Write(StandingsCSVHeader); err != nil {
		return err
	}
	for _, s := range all {
		row := []string{s.ID, s.Name, s.RaceName, s.Date, s.TimeDisplay, formatPoints(s.Points), s.Category}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportStandingsTableCSV writes the aggregated standings table.
func ExportStandingsTableCSV(ctx context.Context, w io.Writer, standings StandingLister) error {
	all, err := standings.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(StandingsTableCSVHeader); err != nil {
		return err
	}
	for i, row := range championship.Table(all) {
		rec := []string{strconv.Itoa(i + 1), row.Name, formatPoints(row.Total), strconv.Itoa(row.Races), formatPoints(row.Best)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', championship.PointsPlaces, 64)
}
