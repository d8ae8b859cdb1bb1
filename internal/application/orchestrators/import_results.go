package orchestrators

import (
	"context"
	"io"
	"log/slog"
	"time"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/racetime"
	"autokudos/internal/domain/result"
)

// ImportResultsInput carries a results CSV with columns
// name, distance, time_display, location, race_date.
type ImportResultsInput struct {
	Reader io.Reader
	DryRun bool
}

// ImportResultsResult summarises a results import.
type ImportResultsResult struct {
	Total      int              `json:"total"`
	Imported   int              `json:"imported"`
	Duplicates int              `json:"duplicates"`
	Errors     []ImportRowError `json:"errors"`
	DryRun     bool             `json:"dry_run"`
}

// ImportResultsDeps holds dependencies for ExecuteImportResults.
type ImportResultsDeps struct {
	Members    MemberLister
	Results    ResultStore
	GenerateID func() string
}

// ExecuteImportResults appends approved results from a CSV. Each row must
// name an existing member exactly; gender and date of birth are copied from
// that member. Distances are folded onto the canonical labels. Unparsable
// times are stored with the sentinel seconds so they rank last.
// Rows already present for the same runner and date are counted as
// duplicates but still imported; run deduplication afterwards to merge them.
func ExecuteImportResults(ctx context.Context, input ImportResultsInput, deps ImportResultsDeps) (ImportResultsResult, error) {
	sheet, err := readCSV(input.Reader,
		[]string{"NAME", "DISTANCE", "TIME_DISPLAY", "RACE_DATE"},
		map[string]string{"TIME": "TIME_DISPLAY", "DATE": "RACE_DATE"},
		"NAME", "DISTANCE", "TIME_DISPLAY", "LOCATION", "RACE_DATE", "TIME_SECONDS", "GENDER", "DOB", "ID")
	if err != nil {
		return ImportResultsResult{}, err
	}
	members, err := deps.Members.List(ctx)
	if err != nil {
		return ImportResultsResult{}, err
	}
	existing, err := deps.Results.List(ctx)
	if err != nil {
		return ImportResultsResult{}, err
	}

	out := ImportResultsResult{DryRun: input.DryRun}
	for sheet.next() {
		out.Total++
		name := sheet.col("NAME")
		m, ok := member.FindByName(members, name)
		if !ok {
			out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "unknown member: " + name})
			continue
		}
		distance, ok := result.NormalizeDistance(sheet.col("DISTANCE"))
		if !ok {
			out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "unknown distance: " + distance})
			continue
		}
		raceDate := sheet.col("RACE_DATE")
		if _, err := time.Parse(category.DateLayout, raceDate); err != nil {
			out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: result.ErrInvalidRaceDate.Error()})
			continue
		}
		display := sheet.col("TIME_DISPLAY")
		r := result.RaceResult{
			ID:          deps.GenerateID(),
			Name:        m.Name,
			Gender:      m.Gender,
			DOB:         m.DOB,
			Distance:    distance,
			TimeSeconds: racetime.ToSeconds(display),
			TimeDisplay: racetime.Normalize(display),
			Location:    sheet.col("LOCATION"),
			RaceDate:    raceDate,
		}
		if result.IsDuplicate(r.Name, r.RaceDate, existing) {
			out.Duplicates++
		}
		if !input.DryRun {
			if err := deps.Results.Append(ctx, r); err != nil {
				slog.Error("results_import_save_failed", "row", sheet.row, "err", err)
				out.Errors = append(out.Errors, ImportRowError{Row: sheet.row, Message: "save failed (see server log)"})
				continue
			}
		}
		existing = append(existing, r)
		out.Imported++
	}
	if sheet.err != nil {
		out.Errors = append(out.Errors, ImportRowError{Row: sheet.row + 1, Message: sheet.err.Error()})
	}

	slog.Info("results_import",
		"dry_run", input.DryRun,
		"total", out.Total,
		"imported", out.Imported,
		"duplicates", out.Duplicates,
		"errors", len(out.Errors),
	)
	return out, nil
}
