// Package settings holds the club-wide configuration record.
//
// Settings are stored as scalar keys but loaded and saved as one record with
// a version counter, so a caller works from a single consistent snapshot.
package settings

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"autokudos/internal/domain/category"
	"autokudos/internal/domain/result"
)

// Storage keys for the scalar settings.
const (
	KeyAdminPassword    = "admin_password"
	KeyLogoURL          = "club_logo_url"
	KeyAgeMode          = "age_mode"
	KeyVisibleDistances = "visible_distances"
	KeyShowChampTab     = "show_champ_tab"
	KeyClubNotes        = "club_notes"
	KeyVersion          = "settings_version"
)

// Defaults materialised on first read.
const (
	DefaultAdminPassword = "admin123"
	DefaultLogoURL       = "https://cdn-icons-png.flaticon.com/512/55/55281.png"
)

// MinPasswordLength applies to new admin passwords.
const MinPasswordLength = 8

const bcryptCost = 12

// Domain errors
var (
	ErrStaleVersion     = errors.New("settings were changed by someone else; reload and try again")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrNoDistances      = errors.New("at least one distance must be visible")
	ErrInvalidAgeMode   = errors.New("age mode must be 10Y or 5Y")
)

// Settings is the club configuration singleton.
//
// AdminPassword holds a bcrypt hash. Values written before hashing was
// introduced are plaintext and still accepted by CheckAdminPassword.
type Settings struct {
	Version             int64         `json:"version"`
	AdminPassword       string        `json:"-"`
	LogoURL             string        `json:"logo_url"`
	AgeMode             category.Mode `json:"age_mode"`
	VisibleDistances    []string      `json:"visible_distances"`
	ShowChampionshipTab bool          `json:"show_champ_tab"`
	ClubNotes           string        `json:"club_notes"`
}

// Defaults returns the settings used when nothing has been stored yet.
func Defaults() Settings {
	return Settings{
		AdminPassword:       DefaultAdminPassword,
		LogoURL:             DefaultLogoURL,
		AgeMode:             category.Mode10Year,
		VisibleDistances:    append([]string(nil), result.Distances...),
		ShowChampionshipTab: true,
	}
}

// Validate checks the admin-editable fields.
// PRE: Settings struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Settings) Validate() error {
	if !s.AgeMode.Valid() {
		return ErrInvalidAgeMode
	}
	if len(s.VisibleDistances) == 0 {
		return ErrNoDistances
	}
	for _, d := range s.VisibleDistances {
		if !result.ValidDistance(d) {
			return result.ErrUnknownDistance
		}
	}
	return nil
}

// EffectiveLogoURL returns the stored logo, or the default icon when the
// stored value is not an http(s) URL.
func (s Settings) EffectiveLogoURL() string {
	if strings.HasPrefix(s.LogoURL, "http") {
		return s.LogoURL
	}
	return DefaultLogoURL
}

// DistanceVisible reports whether d is shown on the public leaderboard.
func (s Settings) DistanceVisible(d string) bool {
	for _, v := range s.VisibleDistances {
		if v == d {
			return true
		}
	}
	return false
}

// SetAdminPassword hashes and stores a new admin password.
// PRE: plaintext is at least MinPasswordLength characters
// POST: AdminPassword holds a bcrypt hash
func (s *Settings) SetAdminPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	s.AdminPassword = string(hash)
	return nil
}

// CheckAdminPassword verifies plaintext against the stored password.
// INVARIANT: Settings fields are not mutated
func (s Settings) CheckAdminPassword(plaintext string) error {
	if s.AdminPassword == "" {
		return ErrWrongPassword
	}
	if s.IsHashed() {
		if bcrypt.CompareHashAndPassword([]byte(s.AdminPassword), []byte(plaintext)) != nil {
			return ErrWrongPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(s.AdminPassword), []byte(plaintext)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// IsHashed reports whether the stored admin password is a bcrypt hash.
func (s Settings) IsHashed() bool {
	return strings.HasPrefix(s.AdminPassword, "$2")
}
