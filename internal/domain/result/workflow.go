package result

import (
	"errors"
	"strings"
)

// State is the review state of a submission.
type State string

// Review states. Approved and Rejected are terminal.
const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// ErrInvalidTransition is returned when a submission leaves a terminal state.
var ErrInvalidTransition = errors.New("submission has already been decided")

// Transition moves s to next.
// PRE: s is Pending
// POST: returns next, or ErrInvalidTransition
func (s State) Transition(next State) (State, error) {
	if s != StatePending || (next != StateApproved && next != StateRejected) {
		return s, ErrInvalidTransition
	}
	return next, nil
}

// IsDuplicate reports whether an approved result already exists for the
// same runner on the same day. Both fields are trimmed; matching is
// case-sensitive.
func IsDuplicate(name, raceDate string, existing []RaceResult) bool {
	name = strings.TrimSpace(name)
	raceDate = strings.TrimSpace(raceDate)
	for _, r := range existing {
		if strings.TrimSpace(r.Name) == name && strings.TrimSpace(r.RaceDate) == raceDate {
			return true
		}
	}
	return false
}

// Deduplicate keeps one result per (name, race_date): the one with the
// lowest EffectiveSeconds, the same ranking the leaderboard uses. Ties keep
// the earlier record. Survivors stay in their original order.
func Deduplicate(all []RaceResult) []RaceResult {
	type key struct{ name, date string }
	best := make(map[key]int, len(all))
	for i, r := range all {
		k := key{strings.TrimSpace(r.Name), strings.TrimSpace(r.RaceDate)}
		j, seen := best[k]
		if !seen || r.EffectiveSeconds() < all[j].EffectiveSeconds() {
			best[k] = i
		}
	}
	kept := make([]RaceResult, 0, len(best))
	for i, r := range all {
		if best[key{strings.TrimSpace(r.Name), strings.TrimSpace(r.RaceDate)}] == i {
			kept = append(kept, r)
		}
	}
	return kept
}
