package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autokudos/internal/adapters/storage"
	champstore "autokudos/internal/adapters/storage/championship"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/racetime"
)

// ChampionshipDeps holds dependencies for championship administration.
type ChampionshipDeps struct {
	Season     champstore.Store
	Pending    ChampPendingStore
	Standings  StandingStore
	Members    MemberLister
	GenerateID func() string
	Now        func() time.Time
	// Publisher is optional.
	Publisher StandingsPublisher
}

// ExecuteSaveCalendar replaces the season calendar.
// PRE: cal has championship.SeasonSlots entries
func ExecuteSaveCalendar(ctx context.Context, cal championship.Calendar, deps ChampionshipDeps) error {
	for i := range cal {
		cal[i].EventName = strings.TrimSpace(cal[i].EventName)
		if cal[i].Terrain == "" {
			cal[i].Terrain = championship.TerrainRoad
		}
	}
	if err := deps.Season.SaveCalendar(ctx, cal); err != nil {
		return err
	}
	slog.Info("calendar_saved", "races", len(cal.RaceNames()))
	return nil
}

// SaveWinnersInput sets winner times for one race. Times is keyed by
// "Gender_Category"; an empty time clears that slot.
type SaveWinnersInput struct {
	Race  string
	Times map[string]string
}

// ExecuteSaveWinners merges winner times for one race into the grid.
// PRE: Race is an announced race on the calendar
// POST: every stored time is canonical HH:MM:SS
func ExecuteSaveWinners(ctx context.Context, input SaveWinnersInput, deps ChampionshipDeps) (championship.WinnerGrid, error) {
	cal, err := deps.Season.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	if !contains(cal.RaceNames(), input.Race) {
		return nil, fmt.Errorf("%w: %q is not on the calendar", storage.ErrNotFound, input.Race)
	}
	grid, err := deps.Season.Winners(ctx)
	if err != nil {
		return nil, err
	}
	type slot struct{ gender, cat, display string }
	slots := make([]slot, 0, len(input.Times))
	for key, display := range input.Times {
		gender, cat, ok := strings.Cut(key, "_")
		if !ok || !member.ValidGender(gender) || !contains(category.ChampionshipBands(), cat) {
			return nil, fmt.Errorf("unknown winner slot %q", key)
		}
		display = strings.TrimSpace(display)
		if display != "" {
			if _, err := racetime.Parse(display); err != nil {
				return nil, err
			}
			display = racetime.Normalize(display)
		}
		slots = append(slots, slot{gender, cat, display})
	}
	// Nothing is applied until every slot has validated.
	for _, s := range slots {
		grid.Set(input.Race, s.gender, s.cat, s.display)
	}
	if err := deps.Season.SaveWinners(ctx, grid); err != nil {
		return nil, err
	}
	slog.Info("winners_saved", "race", input.Race, "slots", len(input.Times))
	return grid, nil
}

// SubmitChampionshipInput is a runner's claimed championship time.
type SubmitChampionshipInput struct {
	Name        string
	RaceName    string
	TimeDisplay string
	Date        string
}

// ExecuteSubmitChampionship queues a championship entry for review.
func ExecuteSubmitChampionship(ctx context.Context, input SubmitChampionshipInput, deps ChampionshipDeps) (championship.Pending, error) {
	p := championship.Pending{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		RaceName:    strings.TrimSpace(input.RaceName),
		TimeDisplay: racetime.Normalize(strings.TrimSpace(input.TimeDisplay)),
		Date:        strings.TrimSpace(input.Date),
		SubmittedAt: deps.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return championship.Pending{}, err
	}
	if _, err := time.Parse(category.DateLayout, p.Date); err != nil {
		return championship.Pending{}, &category.Error{Field: "date", Value: p.Date}
	}
	if err := deps.Pending.Append(ctx, p); err != nil {
		return championship.Pending{}, fmt.Errorf("queue championship entry: %w", err)
	}
	slog.Info("championship_submission_received", "pending_id", p.ID, "race", p.RaceName)
	return p, nil
}

// ExecuteApproveChampionship scores a pending entry and appends it to the
// standings. Scoring blocks on a missing winner time or an unparsable time.
// POST: one Standing is appended and the pending entry removed
func ExecuteApproveChampionship(ctx context.Context, pendingID string, deps ChampionshipDeps) (championship.Standing, error) {
	queue, err := deps.Pending.List(ctx)
	if err != nil {
		return championship.Standing{}, fmt.Errorf("list championship pending: %w", err)
	}
	var p championship.Pending
	found := false
	for _, cur := range queue {
		if cur.ID == pendingID {
			p, found = cur, true
			break
		}
	}
	if !found {
		return championship.Standing{}, storage.ErrNotFound
	}

	members, err := deps.Members.List(ctx)
	if err != nil {
		return championship.Standing{}, fmt.Errorf("list members: %w", err)
	}
	m, ok := member.FindByName(members, p.Name)
	if !ok {
		return championship.Standing{}, fmt.Errorf("%w: %q", ErrMemberNotResolved, p.Name)
	}
	grid, err := deps.Season.Winners(ctx)
	if err != nil {
		return championship.Standing{}, err
	}
	score, err := championship.ScoreEntry(grid, p.RaceName, m.Gender, m.DOB, p.Date, p.TimeDisplay)
	if err != nil {
		return championship.Standing{}, err
	}

	entry := championship.Standing{
		ID:          deps.GenerateID(),
		Name:        p.Name,
		RaceName:    p.RaceName,
		Points:      score.Points,
		Date:        p.Date,
		Category:    score.Category,
		TimeDisplay: p.TimeDisplay,
	}
	err = claimPending[championship.Pending](ctx, deps.Pending, p.ID, p, func() error {
		if err := deps.Standings.Append(ctx, entry); err != nil {
			return fmt.Errorf("append standing: %w", err)
		}
		return nil
	})
	if err != nil {
		return championship.Standing{}, err
	}
	slog.Info("championship_approved", "pending_id", p.ID, "standing_id", entry.ID, "points", entry.Points)
	publishStandings(ctx, deps)
	return entry, nil
}

// ExecuteRejectChampionship discards a pending championship entry.
func ExecuteRejectChampionship(ctx context.Context, pendingID string, deps ChampionshipDeps) error {
	if err := deps.Pending.Remove(ctx, pendingID); err != nil {
		return err
	}
	slog.Info("championship_rejected", "pending_id", pendingID)
	return nil
}

// ExecuteClearStandings deletes every standings entry.
// PRE: confirm is true
func ExecuteClearStandings(ctx context.Context, confirm bool, deps ChampionshipDeps) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := deps.Standings.Clear(ctx); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	slog.Warn("standings_cleared")
	publishStandings(ctx, deps)
	return nil
}

// publishStandings mirrors the table to the publisher. Failures are logged
// and never undo the change that triggered them.
func publishStandings(ctx context.Context, deps ChampionshipDeps) {
	if deps.Publisher == nil {
		return
	}
	entries, err := deps.Standings.List(ctx)
	if err != nil {
		slog.Warn("standings_publish_failed", "error", err)
		return
	}
	if err := deps.Publisher.PublishStandings(ctx, championship.Table(entries)); err != nil {
		slog.Warn("standings_publish_failed", "error", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
