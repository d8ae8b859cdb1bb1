// Package championship models the club championship season: the race
// calendar, category winner times, and points standings.
package championship

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SeasonSlots is the fixed number of races in a championship season.
const SeasonSlots = 15

// Placeholder used for calendar fields not yet announced.
const TBC = "TBC"

// Terrain values for calendar entries.
const (
	TerrainRoad  = "Road"
	TerrainTrail = "Trail"
	TerrainFell  = "Fell"
	TerrainXC    = "XC"
)

// Terrains lists every accepted terrain.
var Terrains = []string{TerrainRoad, TerrainTrail, TerrainFell, TerrainXC}

// Domain errors
var (
	ErrCalendarSize    = fmt.Errorf("calendar must have exactly %d races", SeasonSlots)
	ErrInvalidTerrain  = errors.New("terrain must be Road, Trail, Fell or XC")
	ErrEmptyEventName  = errors.New("event name cannot be empty")
	ErrEntryIncomplete = errors.New("championship entry needs a name, race, time and date")
)

// CalendarEntry is one slot of the season calendar.
type CalendarEntry struct {
	Date      string `json:"date"`
	EventName string `json:"event_name"`
	Distance  string `json:"distance"`
	Terrain   string `json:"terrain"`
}

// Calendar is the full season.
type Calendar []CalendarEntry

// DefaultCalendar returns the placeholder season written on first read.
func DefaultCalendar() Calendar {
	cal := make(Calendar, SeasonSlots)
	for i := range cal {
		cal[i] = CalendarEntry{Date: TBC, EventName: fmt.Sprintf("Race %d", i+1), Distance: TBC, Terrain: TerrainRoad}
	}
	return cal
}

// Validate checks slot count, event names and terrains.
func (c Calendar) Validate() error {
	if len(c) != SeasonSlots {
		return ErrCalendarSize
	}
	for _, e := range c {
		if strings.TrimSpace(e.EventName) == "" {
			return ErrEmptyEventName
		}
		if !validTerrain(e.Terrain) {
			return ErrInvalidTerrain
		}
	}
	return nil
}

// RaceNames returns the event names that have been announced.
func (c Calendar) RaceNames() []string {
	var names []string
	for _, e := range c {
		if e.EventName != "" && e.EventName != TBC {
			names = append(names, e.EventName)
		}
	}
	return names
}

func validTerrain(t string) bool {
	for _, v := range Terrains {
		if t == v {
			return true
		}
	}
	return false
}

// Pending is a runner's claimed championship time awaiting review.
type Pending struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RaceName    string    `json:"race_name"`
	TimeDisplay string    `json:"time_display"`
	Date        string    `json:"date"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RecordID returns the stable identifier used by the record store.
func (p Pending) RecordID() string { return p.ID }

// Validate checks the intake fields.
func (p *Pending) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.RaceName) == "" ||
		strings.TrimSpace(p.TimeDisplay) == "" || strings.TrimSpace(p.Date) == "" {
		return ErrEntryIncomplete
	}
	return nil
}

// Standing is an awarded points entry. Standings are append-only.
type Standing struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RaceName    string  `json:"race_name"`
	Points      float64 `json:"points"`
	Date        string  `json:"date"`
	Category    string  `json:"category,omitempty"`
	TimeDisplay string  `json:"time_display,omitempty"`
}

// RecordID returns the stable identifier used by the record store.
func (s Standing) RecordID() string { return s.ID }
