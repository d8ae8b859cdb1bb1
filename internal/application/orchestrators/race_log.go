package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autokudos/internal/adapters/storage"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/result"
)

// ErrConfirmationRequired guards destructive bulk operations.
var ErrConfirmationRequired = errors.New("this action cannot be undone; confirm to continue")

// RaceLogDeps holds dependencies for race-log maintenance.
type RaceLogDeps struct {
	Results ResultStore
}

// EditResultInput changes the editable fields of a stored result. Empty
// fields keep the stored value.
type EditResultInput struct {
	ID          string
	TimeDisplay string
	RaceDate    string
	Location    string
}

// ExecuteEditResult updates a result in place.
// POST: TimeSeconds is recomputed from the new display; an unparsable time
// fails the edit
func ExecuteEditResult(ctx context.Context, input EditResultInput, deps RaceLogDeps) (result.RaceResult, error) {
	all, err := deps.Results.List(ctx)
	if err != nil {
		return result.RaceResult{}, fmt.Errorf("list results: %w", err)
	}
	var r result.RaceResult
	found := false
	for _, cur := range all {
		if cur.ID == input.ID {
			r, found = cur, true
			break
		}
	}
	if !found {
		return result.RaceResult{}, storage.ErrNotFound
	}

	if s := strings.TrimSpace(input.TimeDisplay); s != "" {
		if err := r.SetTime(s); err != nil {
			return result.RaceResult{}, err
		}
	}
	if s := strings.TrimSpace(input.RaceDate); s != "" {
		if _, err := time.Parse(category.DateLayout, s); err != nil {
			return result.RaceResult{}, result.ErrInvalidRaceDate
		}
		r.RaceDate = s
	}
	if s := strings.TrimSpace(input.Location); s != "" {
		r.Location = s
	}
	if err := deps.Results.Replace(ctx, r); err != nil {
		return result.RaceResult{}, err
	}
	slog.Info("result_edited", "result_id", r.ID)
	return r, nil
}

// ExecuteDeleteResult removes one result by id.
func ExecuteDeleteResult(ctx context.Context, id string, deps RaceLogDeps) error {
	if err := deps.Results.Remove(ctx, id); err != nil {
		return err
	}
	slog.Info("result_deleted", "result_id", id)
	return nil
}

// DeduplicateResult reports the collection size before and after.
type DeduplicateResult struct {
	Original int `json:"original_count"`
	Final    int `json:"final_count"`
}

// ExecuteDeduplicateResults keeps the fastest result per runner and race
// date and swaps the survivors in as the whole collection.
// POST: on error the stored results are unchanged
func ExecuteDeduplicateResults(ctx context.Context, deps RaceLogDeps) (DeduplicateResult, error) {
	all, err := deps.Results.List(ctx)
	if err != nil {
		return DeduplicateResult{}, fmt.Errorf("list results: %w", err)
	}
	kept := result.Deduplicate(all)
	out := DeduplicateResult{Original: len(all), Final: len(kept)}
	if out.Final == out.Original {
		slog.Info("results_deduplicated", "original", out.Original, "final", out.Final, "rewritten", false)
		return out, nil
	}
	if err := deps.Results.ReplaceAll(ctx, kept); err != nil {
		return DeduplicateResult{}, fmt.Errorf("rewrite results: %w", err)
	}
	slog.Info("results_deduplicated", "original", out.Original, "final", out.Final, "rewritten", true)
	return out, nil
}

// ExecuteWipeResults deletes every approved result.
// PRE: confirm is true
func ExecuteWipeResults(ctx context.Context, confirm bool, deps RaceLogDeps) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := deps.Results.Clear(ctx); err != nil {
		return fmt.Errorf("wipe results: %w", err)
	}
	slog.Warn("results_wiped")
	return nil
}
