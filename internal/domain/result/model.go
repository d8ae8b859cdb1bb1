// Package result holds approved race results and pending submissions.
package result

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/racetime"
)

// Distance labels as displayed on the leaderboard.
const (
	Distance5K       = "5k"
	Distance10K      = "10k"
	Distance10Mile   = "10 Mile"
	DistanceHalf     = "Half-Marathon"
	DistanceMarathon = "Marathon"
)

// Distances lists every distance in leaderboard order.
var Distances = []string{Distance5K, Distance10K, Distance10Mile, DistanceHalf, DistanceMarathon}

// Domain errors
var (
	ErrEmptyName         = errors.New("result name cannot be empty")
	ErrUnknownDistance   = errors.New("distance must be one of 5k, 10k, 10 Mile, Half-Marathon, Marathon")
	ErrInvalidRaceDate   = errors.New("race date must be a YYYY-MM-DD date")
	ErrSecondsMismatch   = errors.New("time_seconds does not match time_display")
	ErrPendingIncomplete = errors.New("submission needs a name, distance, time and race date")
)

// RaceResult is an approved result. DOB and Gender are copies taken from
// the member at approval time.
type RaceResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DOB         string `json:"date_of_birth"`
	Distance    string `json:"distance"`
	TimeSeconds int    `json:"time_seconds"`
	TimeDisplay string `json:"time_display"`
	Location    string `json:"location"`
	RaceDate    string `json:"race_date"`
}

// RecordID returns the stable identifier used by the record store.
func (r RaceResult) RecordID() string { return r.ID }

// UnmarshalJSON reads the legacy "dob" key as DOB when "date_of_birth" is
// absent.
func (r *RaceResult) UnmarshalJSON(b []byte) error {
	type plain RaceResult
	var v struct {
		plain
		LegacyDOB string `json:"dob"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RaceResult(v.plain)
	if r.DOB == "" {
		r.DOB = v.LegacyDOB
	}
	return nil
}

// Validate checks the result invariants.
// INVARIANT: TimeSeconds equals the decoded TimeDisplay
func (r *RaceResult) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !ValidDistance(r.Distance) {
		return ErrUnknownDistance
	}
	if _, err := time.Parse(category.DateLayout, r.RaceDate); err != nil {
		return ErrInvalidRaceDate
	}
	secs, err := racetime.Parse(r.TimeDisplay)
	if err != nil {
		return err
	}
	if secs != r.TimeSeconds {
		return ErrSecondsMismatch
	}
	return nil
}

// SetTime normalizes display and recomputes seconds from it.
// POST: TimeDisplay is canonical and TimeSeconds is derived from it
func (r *RaceResult) SetTime(display string) error {
	secs, err := racetime.Parse(display)
	if err != nil {
		return err
	}
	r.TimeDisplay = racetime.Normalize(display)
	r.TimeSeconds = secs
	return nil
}

// EffectiveSeconds is the value used for ranking. Records without stored
// seconds fall back to decoding the display and then to the sentinel.
func (r RaceResult) EffectiveSeconds() int {
	if r.TimeSeconds > 0 {
		return r.TimeSeconds
	}
	return racetime.ToSeconds(r.TimeDisplay)
}

// Year returns the calendar year of the race, or 0 when the date is unusable.
func (r RaceResult) Year() int {
	t, err := time.Parse(category.DateLayout, strings.TrimSpace(r.RaceDate))
	if err != nil {
		return 0
	}
	return t.Year()
}

// Pending is a submitted result awaiting review. Nothing in it has been
// validated against the member list.
type Pending struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Distance    string    `json:"distance"`
	TimeDisplay string    `json:"time_display"`
	Location    string    `json:"location"`
	RaceDate    string    `json:"race_date"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RecordID returns the stable identifier used by the record store.
func (p Pending) RecordID() string { return p.ID }

// Validate performs the light checks applied at intake.
func (p *Pending) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Distance) == "" ||
		strings.TrimSpace(p.TimeDisplay) == "" || strings.TrimSpace(p.RaceDate) == "" {
		return ErrPendingIncomplete
	}
	return nil
}

// ValidDistance reports whether d is a canonical distance label.
func ValidDistance(d string) bool {
	for _, v := range Distances {
		if d == v {
			return true
		}
	}
	return false
}

// NormalizeDistance folds the spellings seen in uploads onto the canonical
// labels. The second return value is false when nothing matched, in which
// case the trimmed input is returned.
func NormalizeDistance(d string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(d))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "5k", "5km", "parkrun":
		return Distance5K, true
	case "10k", "10km":
		return Distance10K, true
	case "10mile", "10miles", "10m":
		return Distance10Mile, true
	case "hm", "half", "halfmarathon", "13.1":
		return DistanceHalf, true
	case "marathon", "fullmarathon", "26.2":
		return DistanceMarathon, true
	}
	return strings.TrimSpace(d), false
}
