package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	domain "autokudos/internal/domain/member"
)

// ImportMembersInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row containing name, gender, dob.
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true.
// INVARIANT: Existing members are never deleted; IDs are preserved on update.
type ImportMembersInput struct {
	Reader     io.Reader
	DryRun     bool
	UpdateMode bool
}

// ImportRowError describes a problem with one CSV row. Row counts the
// header as row 1.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportMembersResult holds aggregate counts and per-row errors.
type ImportMembersResult struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
	DryRun  bool             `json:"dry_run"`
	Unknown []string         `json:"unknown_columns,omitempty"`
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	Members    MemberStore
	GenerateID func() string
}

// ExecuteImportMembers creates or updates members from a CSV stream keyed
// by exact name. Rows are written one at a time, so a failure part way
// leaves the earlier rows in place.
// INVARIANT: When DryRun=true no writes occur
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	sheet, err := readCSV(input.Reader, []string{"NAME", "GENDER", "DOB"},
		map[string]string{"DATE_OF_BIRTH": "DOB"},
		"NAME", "GENDER", "DOB", "STATUS", "ID")
	if err != nil {
		return ImportMembersResult{}, err
	}

	existing, err := deps.Members.List(ctx)
	if err != nil {
		return ImportMembersResult{}, err
	}
	byName := make(map[string]domain.Member, len(existing))
	for _, m := range existing {
		byName[m.Name] = m
	}

	result := ImportMembersResult{DryRun: input.DryRun, Unknown: sheet.unknown}
	for sheet.next() {
		result.Total++
		m := domain.Member{
			Name:   sheet.col("NAME"),
			Gender: domain.NormalizeGender(sheet.col("GENDER")),
			DOB:    sheet.col("DOB"),
			Status: normalizeStatus(sheet.col("STATUS")),
		}
		current, exists := byName[m.Name]
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}
		if exists {
			m.ID = current.ID
		} else {
			m.ID = deps.GenerateID()
		}
		if err := m.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: sheet.row, Message: err.Error()})
			continue
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			byName[m.Name] = m
			continue
		}

		if exists {
			err = deps.Members.Replace(ctx, m)
		} else {
			err = deps.Members.Append(ctx, m)
		}
		if err != nil {
			slog.Error("members_import_save_failed", "row", sheet.row, "name", m.Name, "err", err)
			result.Errors = append(result.Errors, ImportRowError{Row: sheet.row, Message: "save failed (see server log)"})
			continue
		}
		byName[m.Name] = m
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}
	if sheet.err != nil {
		result.Errors = append(result.Errors, ImportRowError{Row: sheet.row + 1, Message: sheet.err.Error()})
	}

	slog.Info("members_import",
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func normalizeStatus(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), domain.StatusLeft) {
		return domain.StatusLeft
	}
	return domain.StatusActive
}

// ImportValidationError is returned when the CSV structure is invalid, for
// example a missing required column.
type ImportValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ImportValidationError) Error() string {
	return e.Message
}

// csvSheet iterates the data rows of an uploaded CSV by column name.
type csvSheet struct {
	r       *csv.Reader
	idx     map[string]int
	cur     []string
	row     int
	unknown []string
	err     error
}

// readCSV reads the header, maps aliases onto canonical upper-case names and
// checks required columns are present.
func readCSV(r io.Reader, required []string, aliases map[string]string, known ...string) (*csvSheet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ImportValidationError{Message: "CSV is empty"}
		}
		return nil, &ImportValidationError{Message: "CSV header unreadable: " + err.Error()}
	}

	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	s := &csvSheet{r: cr, idx: make(map[string]int, len(header)), row: 1}
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		s.idx[key] = i
		if !knownSet[key] {
			s.unknown = append(s.unknown, h)
		}
	}
	for _, col := range required {
		if _, ok := s.idx[col]; !ok {
			return nil, &ImportValidationError{Message: "CSV missing required column: " + strings.ToLower(col)}
		}
	}
	return s, nil
}

// next advances to the following non-blank row.
func (s *csvSheet) next() bool {
	for {
		rec, err := s.r.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			s.err = err
			return false
		}
		s.row++
		if blankRow(rec) {
			continue
		}
		s.cur = rec
		return true
	}
}

func (s *csvSheet) col(name string) string {
	i, ok := s.idx[name]
	if !ok || i >= len(s.cur) {
		return ""
	}
	return strings.TrimSpace(s.cur[i])
}

func blankRow(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
