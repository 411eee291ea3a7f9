package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadTimeOfDay is returned when a wall-clock string matches none of the
// accepted layouts.
var ErrBadTimeOfDay = errors.New("unrecognized time-of-day format")

// Layouts accepted for wall-clock input. The 12-hour forms are the legacy
// format stored by older coach configurations ("9:00 AM"); HH:MM is the
// canonical form.
var timeOfDayLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"15:04",
	"15:04:05",
}

// TimeOfDay is a civil time-of-day with no inherent timezone. It replaces
// ad-hoc string handling: parse once at the boundary, compare in minutes of
// the day afterwards.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "9:00 AM", "9:00AM", "09:00" or "09:00:00".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
}

// MinutesOfDay returns minutes elapsed since local midnight.
func (t TimeOfDay) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinutesOfDay() < other.MinutesOfDay()
}

// Add returns the time-of-day d minutes later. The result is not wrapped;
// callers iterating a working window never step past midnight because the
// window end is exclusive and validated to be the same day.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	total := t.MinutesOfDay() + minutes
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// String renders the 12-hour clock form used in coach-facing output,
// e.g. "9:00 AM".
func (t TimeOfDay) String() string {
	ref := time.Date(0, time.January, 1, t.Hour, t.Minute, 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// ToInstant combines a local calendar date, a wall-clock time and an IANA
// zone into an absolute instant. Only the year/month/day of date are used.
//
// DST handling comes from the zone's rule set: a wall time that falls inside
// a spring-forward gap normalizes deterministically past the gap (time.Date
// semantics), and repeated wall times in a fall-back overlap resolve to the
// first occurrence.
func ToInstant(date time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, loc)
}

// ToWallClock splits an absolute instant into its local calendar date (at
// local midnight) and wall-clock time in the given zone.
func ToWallClock(instant time.Time, loc *time.Location) (time.Time, TimeOfDay) {
	local := instant.In(loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return date, TimeOfDay{Hour: local.Hour(), Minute: local.Minute()}
}

// DayBounds returns the half-open interval covering the full local day of
// date in loc: [local midnight, next local midnight). On DST transition days
// the span is 23 or 25 hours; never assume 24.
func DayBounds(date time.Time, loc *time.Location) Interval {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return Interval{Start: start, End: end}
}

// SameLocalDay reports whether two instants fall on the same calendar date
// in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}
