package scheduling

import (
	"errors"
	"time"
)

var (
	ErrBadRecurrenceInterval = errors.New("recurrence interval must be at least one week")
	ErrBadRecurrenceRange    = errors.New("recurrence end date precedes anchor date")
)

// ExpandOccurrences produces the ordered candidate occurrence dates for a
// weekly recurrence: anchorDate, anchorDate + intervalWeeks*7d, ... while
// the date is not after endDate. Pure function of its inputs, finite,
// restartable.
//
// When workingDays is non-nil, dates whose weekday is absent from the set
// are skipped. The filter only skips: the stride still advances from the
// excluded date, it never reschedules an occurrence to the next working day.
//
// Only the calendar date of anchorDate/endDate matters; results are local
// midnights in anchorDate's location.
func ExpandOccurrences(anchorDate, endDate time.Time, intervalWeeks int, workingDays map[time.Weekday]bool) ([]time.Time, error) {
	if intervalWeeks < 1 {
		return nil, ErrBadRecurrenceInterval
	}

	loc := anchorDate.Location()
	anchor := time.Date(anchorDate.Year(), anchorDate.Month(), anchorDate.Day(), 0, 0, 0, 0, loc)
	last := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, loc)
	if last.Before(anchor) {
		return nil, ErrBadRecurrenceRange
	}

	var dates []time.Time
	for cur := anchor; !cur.After(last); cur = cur.AddDate(0, 0, intervalWeeks*7) {
		if workingDays != nil && !workingDays[cur.Weekday()] {
			continue
		}
		dates = append(dates, cur)
	}
	return dates, nil
}
