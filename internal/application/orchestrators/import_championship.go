package orchestrators

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/racetime"
)

// ImportChampionshipInput carries a standings CSV with columns
// name, race_name, date, time_display, points, category.
type ImportChampionshipInput struct {
	Reader io.Reader
	DryRun bool
}

// ImportChampionshipResult summarises a standings import.
type ImportChampionshipResult struct {
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
	DryRun   bool             `json:"dry_run"`
}

// ImportChampionshipDeps holds dependencies for ExecuteImportChampionship.
type ImportChampionshipDeps struct {
	Standings  StandingStore
	GenerateID func() string
}

// ExecuteImportChampionship appends already-scored standings entries, for
// example points carried over from a spreadsheet. Points are taken as
// given; when the points column is blank they cannot be derived and the
// row is rejected.
func ExecuteImportChampionship(ctx context.Context, input ImportChampionshipInput, deps ImportChampionshipDeps) (ImportChampionshipResult, error) {
	sheet, err := readCSV(input.Reader,
		[]string{"NAME", "RACE_NAME", "DATE", "POINTS"},
		map[string]string{"RACE": "RACE_NAME"},
		"NAME", "RACE_NAME", "DATE", "TIME_DISPLAY", "POINTS", "CATEGORY", "ID")
	if err != nil {
		return ImportChampionshipResult{}, err
	}

	out := ImportChampionshipResult{DryRun: input.DryRun}
	for sheet.next() {
		out.Total++
		points, err := strconv.ParseFloat(sheet.col("POINTS"), 64)
		if err != nil || points < 0 {
			out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "points must be a non-negative number"})
			continue
		}
		entry := championship.Standing{
			ID:          deps.GenerateID(),
			Name:        sheet.col("NAME"),
			RaceName:    sheet.col("RACE_NAME"),
			Points:      points,
			Date:        sheet.col("DATE"),
			Category:    sheet.col("CATEGORY"),
			TimeDisplay: racetime.Normalize(sheet.col("TIME_DISPLAY")),
		}
		if entry.Name == "" || entry.RaceName == "" {
			out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "name and race_name are required"})
			continue
		}
		if !input.DryRun {
			if err := deps.Standings.Append(ctx, entry); err != nil {
				slog.Error("championship_import_save_failed", "row", sheet.row, "err", err)
				out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "save failed (see server log)"})
				continue
			}
		}
		out.Imported++
	}
	if sheet.err != nil {
		out.Errors = append(out.Errors, ImportRowError{Row: sheet.row + 1, Message: sheet.err.Error()})
	}
	slog.Info("championship_import", "dry_run", input.DryRun, "total", out.Total, "imported", out.Imported, "errors", len(out.Errors))
	return out, nil
}
