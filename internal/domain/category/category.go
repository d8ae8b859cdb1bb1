// Package category derives age categories (Senior, V40, ...) from a
// runner's date of birth and the date of the race.
package category

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// Mode selects the age banding.
type Mode string

// Banding modes, stored under the age_mode setting.
const (
	Mode10Year Mode = "10Y"
	Mode5Year  Mode = "5Y"
)

// Labels that are not veteran bands.
const (
	Senior  = "Senior"
	Unknown = "Unknown"
)

// ChampionshipTop is the open-ended oldest championship band.
const ChampionshipTop = "V75+"

// ParseMode maps a stored token to a Mode. Anything unrecognised is 10Y.
func ParseMode(s string) Mode {
	if Mode(strings.TrimSpace(s)) == Mode5Year {
		return Mode5Year
	}
	return Mode10Year
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == Mode10Year || m == Mode5Year
}

func (m Mode) bands() (threshold, step int) {
	if m == Mode5Year {
		return 35, 5
	}
	return 40, 10
}

// Error is returned when a date needed for classification is missing or
// cannot be parsed.
type Error struct {
	Field string
	Value string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("category: %s is missing", e.Field)
	}
	return fmt.Sprintf("category: %s %q is not a YYYY-MM-DD date", e.Field, e.Value)
}

// Age returns completed years as of raceDate.
func Age(dob, raceDate time.Time) int {
	age := raceDate.Year() - dob.Year()
	if raceDate.Month() < dob.Month() || (raceDate.Month() == dob.Month() && raceDate.Day() < dob.Day()) {
		age--
	}
	return age
}

// Classify returns the category label for the age at raceDate.
func Classify(dob, raceDate time.Time, mode Mode) string {
	return labelForAge(Age(dob, raceDate), mode)
}

func labelForAge(age int, mode Mode) string {
	threshold, step := mode.bands()
	if age < threshold {
		return Senior
	}
	return "V" + strconv.Itoa((age/step)*step)
}

// ClassifyDates parses both ISO dates and classifies.
// PRE: none
// POST: returns a label, or *Error when either date is missing or malformed
func ClassifyDates(dob, raceDate string, mode Mode) (string, error) {
	d, err := parseDate("date_of_birth", dob)
	if err != nil {
		return "", err
	}
	r, err := parseDate("race_date", raceDate)
	if err != nil {
		return "", err
	}
	return Classify(d, r, mode), nil
}

// ClassifyOrUnknown is the permissive form of ClassifyDates used while
// rendering: failures produce Unknown.
func ClassifyOrUnknown(dob, raceDate string, mode Mode) string {
	label, err := ClassifyDates(dob, raceDate, mode)
	if err != nil {
		return Unknown
	}
	return label
}

// Championship returns the 5-year championship band, folding every age
// of 75 and above into V75+.
func Championship(dob, raceDate string) (string, error) {
	label, err := ClassifyDates(dob, raceDate, Mode5Year)
	if err != nil {
		return "", err
	}
	if rank(label) >= 75 {
		return ChampionshipTop, nil
	}
	return label, nil
}

// ChampionshipBands lists the bands of the championship winner grid in
// display order.
func ChampionshipBands() []string {
	return []string{Senior, "V35", "V40", "V45", "V50", "V55", "V60", "V65", "V70", ChampionshipTop}
}

// Less orders labels for display: Senior first, veteran bands ascending,
// anything unrecognised last.
func Less(a, b string) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

func rank(label string) int {
	if label == Senior {
		return 0
	}
	if strings.HasPrefix(label, "V") {
		if n, err := strconv.Atoi(strings.TrimSuffix(label[1:], "+")); err == nil {
			return n
		}
	}
	return int(^uint(0) >> 1)
}

func parseDate(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, &Error{Field: field}
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, &Error{Field: field, Value: value}
	}
	return t, nil
}
