package scheduling

import (
	"time"

	"peakform/coaching-app/internal/domain"
)

// DayPlan is the resolved, validated form of a coach's WorkingHours
// configuration: structured times instead of strings, ready for slot
// iteration.
type DayPlan struct {
	Start               TimeOfDay
	End                 TimeOfDay
	SlotIntervalMinutes int
	WorkingDays         map[time.Weekday]bool
}

// IsWorkingDay reports whether the weekday is part of the coach's normal
// schedule. An empty set means every day is a working day.
func (p DayPlan) IsWorkingDay(d time.Weekday) bool {
	if len(p.WorkingDays) == 0 {
		return true
	}
	return p.WorkingDays[d]
}

// ResolveDayPlan parses a WorkingHours configuration into a DayPlan.
// Malformed start/end strings, an inverted window or a non-positive interval
// fall back to the default 9:00 AM - 6:00 PM / 60-minute schedule; slot
// generation never fails on bad configuration.
func ResolveDayPlan(wh *domain.WorkingHours) DayPlan {
	plan := DayPlan{
		Start:               TimeOfDay{Hour: 9},
		End:                 TimeOfDay{Hour: 18},
		SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
		WorkingDays:         map[time.Weekday]bool{},
	}
	if wh == nil {
		return plan
	}

	start, startErr := ParseTimeOfDay(wh.StartTime)
	end, endErr := ParseTimeOfDay(wh.EndTime)
	if startErr == nil && endErr == nil && start.Before(end) {
		plan.Start = start
		plan.End = end
	}
	if wh.SlotIntervalMinutes > 0 {
		plan.SlotIntervalMinutes = wh.SlotIntervalMinutes
	}
	for _, d := range wh.WorkingDays {
		plan.WorkingDays[d] = true
	}
	return plan
}

// SlotCandidate is a candidate lesson start time. Blocked candidates are
// included (not dropped) so a coach can see them and deliberately override;
// client-facing callers filter them out.
type SlotCandidate struct {
	Time          TimeOfDay `json:"time"`
	StartsAt      time.Time `json:"startsAt"`
	Blocked       bool      `json:"blocked"`
	BlockedReason string    `json:"blockedReason,omitempty"`
}

// DaySlots is the ordered result of slot generation for one local date.
// WorkingDay tags non-working days; the generator does not refuse them, the
// caller decides whether to suppress (clients) or keep (coach override).
type DaySlots struct {
	Date       time.Time       `json:"date"`
	WorkingDay bool            `json:"workingDay"`
	Slots      []SlotCandidate `json:"slots"`
}

// GenerateSlots produces the ordered candidate slots for one local date.
// Pure function of its inputs: date (local calendar date), plan, the blocked
// intervals touching that date, the instants of already-booked lessons, and
// the injected now. A result with zero slots is valid.
//
// Rules, in order per step:
//   - skip the step on "today" when its minute of day is not after now's
//   - skip the step when its instant exactly matches a booked lesson
//   - otherwise emit, tagged with the first containing blocked interval
func GenerateSlots(
	date time.Time,
	plan DayPlan,
	blocks []domain.BlockedInterval,
	booked []time.Time,
	now time.Time,
	loc *time.Location,
) DaySlots {
	result := DaySlots{
		Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc),
		WorkingDay: plan.IsWorkingDay(date.Weekday()),
		Slots:      []SlotCandidate{},
	}

	isToday := SameLocalDay(result.Date, now, loc)
	nowLocal := now.In(loc)
	nowMinutes := nowLocal.Hour()*60 + nowLocal.Minute()

	for cur := plan.Start; cur.Before(plan.End); cur = cur.Add(plan.SlotIntervalMinutes) {
		if isToday && cur.MinutesOfDay() <= nowMinutes {
			continue
		}

		instant := ToInstant(result.Date, cur, loc)

		if hasBookingAt(instant, booked) {
			continue
		}

		candidate := SlotCandidate{Time: cur, StartsAt: instant}
		if block := FirstBlocking(instant, blocks, loc); block != nil {
			candidate.Blocked = true
			candidate.BlockedReason = block.Title
		}
		result.Slots = append(result.Slots, candidate)
	}

	return result
}

// Available returns only the offerable slots: unblocked candidates, and none
// at all when the date is not a working day. This is the client-facing view.
func (d DaySlots) Available() []SlotCandidate {
	if !d.WorkingDay {
		return []SlotCandidate{}
	}
	open := make([]SlotCandidate, 0, len(d.Slots))
	for _, s := range d.Slots {
		if !s.Blocked {
			open = append(open, s)
		}
	}
	return open
}

func hasBookingAt(instant time.Time, booked []time.Time) bool {
	for _, b := range booked {
		if b.Equal(instant) {
			return true
		}
	}
	return false
}
