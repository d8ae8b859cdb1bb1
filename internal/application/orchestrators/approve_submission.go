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
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

// ErrMemberNotResolved is returned when a submission's name does not match
// a member exactly. The reviewer must assign it to an existing member.
var ErrMemberNotResolved = errors.New("submitted name does not match a member; assign it to an existing member")

// ApproveSubmissionInput identifies the pending entry and carries any
// reviewer edits. Empty fields keep the submitted value.
type ApproveSubmissionInput struct {
	PendingID   string
	MemberName  string
	Distance    string
	TimeDisplay string
	Location    string
	RaceDate    string
}

// ApproveSubmissionResult is the stored result plus the advisory duplicate
// flag.
type ApproveSubmissionResult struct {
	Result    result.RaceResult `json:"result"`
	Duplicate bool              `json:"duplicate"`
}

// ApproveSubmissionDeps holds dependencies for ExecuteApproveSubmission.
type ApproveSubmissionDeps struct {
	Pending    PendingStore
	Results    ResultStore
	Members    MemberLister
	GenerateID func() string
}

// ExecuteApproveSubmission converts a pending submission into a result.
// PRE: the (possibly reassigned) name matches a member exactly
// POST: exactly one result is appended with seconds recomputed from the
// final time display, and the pending entry is removed by id. On error
// the result store is untouched and the entry stays queued.
func ExecuteApproveSubmission(ctx context.Context, input ApproveSubmissionInput, deps ApproveSubmissionDeps) (ApproveSubmissionResult, error) {
	queue, err := deps.Pending.List(ctx)
	if err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("list pending: %w", err)
	}
	p, ok := findPending(queue, input.PendingID)
	if !ok {
		return ApproveSubmissionResult{}, storage.ErrNotFound
	}
	submitted := p
	applyEdits(&p, input)

	members, err := deps.Members.List(ctx)
	if err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("list members: %w", err)
	}
	m, ok := member.FindByName(members, p.Name)
	if !ok {
		slog.Info("submission_unresolved", "pending_id", p.ID, "name", p.Name)
		return ApproveSubmissionResult{}, fmt.Errorf("%w: %q", ErrMemberNotResolved, p.Name)
	}

	r, err := buildResult(deps.GenerateID(), m, p.Distance, p.TimeDisplay, p.Location, p.RaceDate)
	if err != nil {
		return ApproveSubmissionResult{}, err
	}
	state, err := result.StatePending.Transition(result.StateApproved)
	if err != nil {
		return ApproveSubmissionResult{}, err
	}

	existing, err := deps.Results.List(ctx)
	if err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("list results: %w", err)
	}
	dup := result.IsDuplicate(r.Name, r.RaceDate, existing)

	err = claimPending[result.Pending](ctx, deps.Pending, p.ID, submitted, func() error {
		if err := deps.Results.Append(ctx, r); err != nil {
			return fmt.Errorf("append result: %w", err)
		}
		return nil
	})
	if err != nil {
		return ApproveSubmissionResult{}, err
	}
	slog.Info("submission_approved", "pending_id", p.ID, "result_id", r.ID, "state", state, "duplicate", dup)
	return ApproveSubmissionResult{Result: r, Duplicate: dup}, nil
}

// ExecuteRejectSubmission discards a pending submission. Nothing is kept.
func ExecuteRejectSubmission(ctx context.Context, pendingID string, deps ApproveSubmissionDeps) error {
	state, err := result.StatePending.Transition(result.StateRejected)
	if err != nil {
		return err
	}
	if err := deps.Pending.Remove(ctx, pendingID); err != nil {
		return err
	}
	slog.Info("submission_rejected", "pending_id", pendingID, "state", state)
	return nil
}

// AddManualResultInput is an admin-entered result for an existing member.
type AddManualResultInput struct {
	MemberName  string
	Distance    string
	TimeDisplay string
	Location    string
	RaceDate    string
}

// ExecuteAddManualResult appends a result directly, bypassing the queue.
// The duplicate flag is advisory; the result is stored either way.
func ExecuteAddManualResult(ctx context.Context, input AddManualResultInput, deps ApproveSubmissionDeps) (ApproveSubmissionResult, error) {
	members, err := deps.Members.List(ctx)
	if err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("list members: %w", err)
	}
	m, ok := member.FindByName(members, strings.TrimSpace(input.MemberName))
	if !ok {
		return ApproveSubmissionResult{}, fmt.Errorf("%w: %q", ErrMemberNotResolved, input.MemberName)
	}
	r, err := buildResult(deps.GenerateID(), m, input.Distance, input.TimeDisplay, input.Location, input.RaceDate)
	if err != nil {
		return ApproveSubmissionResult{}, err
	}
	existing, err := deps.Results.List(ctx)
	if err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("list results: %w", err)
	}
	dup := result.IsDuplicate(r.Name, r.RaceDate, existing)
	if err := deps.Results.Append(ctx, r); err != nil {
		return ApproveSubmissionResult{}, fmt.Errorf("append result: %w", err)
	}
	slog.Info("result_added", "result_id", r.ID, "duplicate", dup)
	return ApproveSubmissionResult{Result: r, Duplicate: dup}, nil
}

// buildResult validates the fields and copies gender and date of birth
// from m. The time must parse; there is no sentinel fallback here.
func buildResult(id string, m member.Member, distance, display, location, raceDate string) (result.RaceResult, error) {
	d, ok := result.NormalizeDistance(distance)
	if !ok {
		return result.RaceResult{}, result.ErrUnknownDistance
	}
	raceDate = strings.TrimSpace(raceDate)
	if _, err := time.Parse(category.DateLayout, raceDate); err != nil {
		return result.RaceResult{}, result.ErrInvalidRaceDate
	}
	r := result.RaceResult{
		ID:       id,
		Name:     m.Name,
		Gender:   m.Gender,
		DOB:      m.DOB,
		Distance: d,
		Location: strings.TrimSpace(location),
		RaceDate: raceDate,
	}
	if err := r.SetTime(display); err != nil {
		return result.RaceResult{}, err
	}
	return r, nil
}

func applyEdits(p *result.Pending, in ApproveSubmissionInput) {
	if s := strings.TrimSpace(in.MemberName); s != "" {
		p.Name = s
	}
	if s := strings.TrimSpace(in.Distance); s != "" {
		p.Distance = s
	}
	if s := strings.TrimSpace(in.TimeDisplay); s != "" {
		p.TimeDisplay = s
	}
	if s := strings.TrimSpace(in.Location); s != "" {
		p.Location = s
	}
	if s := strings.TrimSpace(in.RaceDate); s != "" {
		p.RaceDate = s
	}
}

func findPending(queue []result.Pending, id string) (result.Pending, bool) {
	for _, p := range queue {
		if p.ID == id {
			return p, true
		}
	}
	return result.Pending{}, false
}
