package member

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"autokudos/internal/domain/category"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive = "Active"
	StatusLeft   = "Left"

	GenderMale      = "Male"
	GenderFemale    = "Female"
	GenderNonBinary = "Non-Binary"
)

// Genders lists the accepted gender values in display order.
var Genders = []string{GenderMale, GenderFemale, GenderNonBinary}

// Domain errors
var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrNameTooLong   = errors.New("member name cannot exceed 100 characters")
	ErrInvalidGender = errors.New("gender must be Male, Female or Non-Binary")
	ErrInvalidDOB    = errors.New("date of birth must be a YYYY-MM-DD date")
	ErrInvalidStatus = errors.New("status must be Active or Left")
)

// Member is a club runner. Name is the lookup key used by results.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	DOB    string `json:"date_of_birth"`
	Status string `json:"status"`
}

// RecordID returns the stable identifier used by the record store.
func (m Member) RecordID() string { return m.ID }

// UnmarshalJSON also accepts the legacy "dob" key written by older
// deployments. "date_of_birth" wins when both are present.
func (m *Member) UnmarshalJSON(b []byte) error {
	type plain Member
	var v struct {
		plain
		LegacyDOB string `json:"dob"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Member(v.plain)
	if m.DOB == "" {
		m.DOB = v.LegacyDOB
	}
	return nil
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !ValidGender(m.Gender) {
		return ErrInvalidGender
	}
	if _, err := time.Parse(category.DateLayout, m.DOB); err != nil {
		return ErrInvalidDOB
	}
	if m.Status != StatusActive && m.Status != StatusLeft {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the member is still with the club.
// Records written before status existed count as active.
func (m *Member) IsActive() bool {
	return m.Status == StatusActive || m.Status == ""
}

// ToggleStatus flips the member between Active and Left.
// POST: Status is the opposite of its previous value
func (m *Member) ToggleStatus() {
	if m.IsActive() {
		m.Status = StatusLeft
		return
	}
	m.Status = StatusActive
}

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// NormalizeGender maps loose input ("m", "female") onto the accepted values.
// Unrecognised input is returned trimmed.
func NormalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "m", "male":
		return GenderMale
	case "f", "female":
		return GenderFemale
	case "nb", "non-binary", "nonbinary", "non binary":
		return GenderNonBinary
	}
	return strings.TrimSpace(g)
}

// FindByName returns the member whose name exactly matches name.
func FindByName(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// SuggestByName returns the first member whose name matches name ignoring
// case and surrounding space. It is a hint for the reviewer, never applied
// automatically.
func SuggestByName(members []Member, name string) (Member, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, m := range members {
		if strings.ToLower(strings.TrimSpace(m.Name)) == want {
			return m, true
		}
	}
	return Member{}, false
}
