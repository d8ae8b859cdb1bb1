// Package racetime converts human-entered race times between their display
// form ("HH:MM:SS") and total seconds.
package racetime

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel is the seconds value reported for times that cannot be parsed.
// It sorts after every real race time.
const Sentinel = 999999

// MaxComponent bounds each of hours, minutes and seconds so the total
// always fits in an int.
const MaxComponent = 999

// ParseError describes a time string that could not be decoded.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable time %q: %s", e.Input, e.Reason)
}

// Normalize returns the canonical "HH:MM:SS" display form of s.
// "MM:SS" is promoted with hours "00" and every component is zero padded
// to two digits. Any other shape is returned unchanged so data entry is
// never blocked.
func Normalize(s string) string {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return s
	}
	for _, p := range parts {
		if !isDigits(p) {
			return s
		}
	}
	if len(parts) == 2 {
		parts = append([]string{"00"}, parts...)
	}
	for i, p := range parts {
		parts[i] = pad2(p)
	}
	return strings.Join(parts, ":")
}

// Parse decodes "H:M:S" or "M:S" into total seconds.
// PRE: none
// POST: returns seconds >= 0, or a *ParseError
func Parse(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &ParseError{Input: s, Reason: "empty"}
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &ParseError{Input: s, Reason: "expected MM:SS or HH:MM:SS"}
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, &ParseError{Input: s, Reason: "non-numeric component " + strconv.Quote(p)}
		}
		if n < 0 {
			return 0, &ParseError{Input: s, Reason: "negative component"}
		}
		if n > MaxComponent {
			return 0, &ParseError{Input: s, Reason: "component " + strconv.Quote(p) + " out of range"}
		}
		nums[i] = n
	}
	if len(nums) == 2 {
		return nums[0]*60 + nums[1], nil
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}

// ToSeconds is the permissive form of Parse: failures yield Sentinel so
// unparsable entries sort last instead of aborting a render.
func ToSeconds(s string) int {
	n, err := Parse(s)
	if err != nil {
		return Sentinel
	}
	return n
}

// Format renders seconds as "HH:MM:SS".
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
