package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"autokudos/internal/adapters/email"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/result"
)

// SubmitResultInput is a public PB submission.
type SubmitResultInput struct {
	Name        string
	Distance    string
	TimeDisplay string
	Location    string
	RaceDate    string
}

// SubmitResultDeps holds dependencies for ExecuteSubmitResult.
type SubmitResultDeps struct {
	Pending    PendingStore
	GenerateID func() string
	Now        func() time.Time
	// Mailer and AdminEmail are optional; when either is unset no
	// notification is sent.
	Mailer     email.Sender
	AdminEmail string
}

// ExecuteSubmitResult queues a submission for admin review. The name is not
// checked against the member list here; that happens at approval.
// POST: one Pending is appended; a notification is attempted but its
// failure does not fail the submission
func ExecuteSubmitResult(ctx context.Context, input SubmitResultInput, deps SubmitResultDeps) (result.Pending, error) {
	distance, ok := result.NormalizeDistance(input.Distance)
	if !ok {
		return result.Pending{}, result.ErrUnknownDistance
	}
	p := result.Pending{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		Distance:    distance,
		TimeDisplay: strings.TrimSpace(input.TimeDisplay),
		Location:    strings.TrimSpace(input.Location),
		RaceDate:    strings.TrimSpace(input.RaceDate),
		SubmittedAt: deps.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return result.Pending{}, err
	}
	if _, err := time.Parse(category.DateLayout, p.RaceDate); err != nil {
		return result.Pending{}, result.ErrInvalidRaceDate
	}
	if err := deps.Pending.Append(ctx, p); err != nil {
		return result.Pending{}, fmt.Errorf("queue submission: %w", err)
	}
	slog.Info("submission_received", "pending_id", p.ID, "distance", p.Distance)

	if deps.Mailer != nil && deps.AdminEmail != "" {
		msg := email.Message{
			To:      []string{deps.AdminEmail},
			Subject: fmt.Sprintf("New %s submission from %s", p.Distance, p.Name),
			HTML: fmt.Sprintf("<p><b>%s</b> submitted %s for the %s at %s on %s.</p><p>Review it in the admin area.</p>",
				html.EscapeString(p.Name), html.EscapeString(p.TimeDisplay), html.EscapeString(p.Distance),
				html.EscapeString(p.Location), html.EscapeString(p.RaceDate)),
		}
		if _, err := deps.Mailer.Send(ctx, msg); err != nil {
			slog.Warn("submission_notify_failed", "pending_id", p.ID, "error", err)
		}
	}
	return p, nil
}
