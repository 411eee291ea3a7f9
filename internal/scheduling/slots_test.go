package scheduling

import (
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"
)

func morningPlan() DayPlan {
	// 9:00 AM - 12:00 PM, 60-minute slots, all days working.
	return DayPlan{
		Start:               TimeOfDay{Hour: 9},
		End:                 TimeOfDay{Hour: 12},
		SlotIntervalMinutes: 60,
		WorkingDays:         map[time.Weekday]bool{},
	}
}

func slotTimes(slots []SlotCandidate) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time.String()
	}
	return out
}

func TestGenerateSlotsBasicWindow(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)

	got := GenerateSlots(date, morningPlan(), nil, nil, now, loc)

	want := []string{"9:00 AM", "10:00 AM", "11:00 AM"}
	times := slotTimes(got.Slots)
	if len(times) != len(want) {
		t.Fatalf("expected %d slots, got %d (%v)", len(want), len(times), times)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("slot %d: want %s, got %s", i, want[i], times[i])
		}
	}
	if !got.WorkingDay {
		t.Error("expected a working day")
	}
}

func TestGenerateSlotsSkipsBookedInstant(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)
	booked := []time.Time{time.Date(2026, 4, 6, 10, 0, 0, 0, loc)}

	got := GenerateSlots(date, morningPlan(), nil, booked, now, loc)

	want := []string{"9:00 AM", "11:00 AM"}
	times := slotTimes(got.Slots)
	if len(times) != 2 || times[0] != want[0] || times[1] != want[1] {
		t.Fatalf("want %v, got %v", want, times)
	}
}

func TestGenerateSlotsAllDayBlockMarksEverySlot(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)
	blocks := []domain.BlockedInterval{
		{Title: "Conference", StartsAt: date.Add(13 * time.Hour), IsAllDay: true},
	}

	got := GenerateSlots(date, morningPlan(), blocks, nil, now, loc)

	if len(got.Slots) == 0 {
		t.Fatal("expected slots to be generated")
	}
	for _, s := range got.Slots {
		if !s.Blocked {
			t.Errorf("slot %s: expected blocked", s.Time)
		}
		if s.BlockedReason != "Conference" {
			t.Errorf("slot %s: expected reason Conference, got %q", s.Time, s.BlockedReason)
		}
	}
	if len(got.Available()) != 0 {
		t.Error("no slot on an all-day-blocked date should be offerable")
	}
}

func TestGenerateSlotsPartialBlockHalfOpen(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)
	// Block [10:00, 11:00): 10:00 is blocked, 11:00 is not.
	blocks := []domain.BlockedInterval{
		{Title: "Standup", StartsAt: date.Add(10 * time.Hour), EndsAt: date.Add(11 * time.Hour)},
	}

	got := GenerateSlots(date, morningPlan(), blocks, nil, now, loc)
	if len(got.Slots) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got.Slots))
	}
	byTime := map[string]SlotCandidate{}
	for _, s := range got.Slots {
		byTime[s.Time.String()] = s
	}
	if byTime["9:00 AM"].Blocked {
		t.Error("9:00 AM must not be blocked")
	}
	if !byTime["10:00 AM"].Blocked {
		t.Error("10:00 AM must be blocked")
	}
	if byTime["11:00 AM"].Blocked {
		t.Error("11:00 AM must not be blocked (end is exclusive)")
	}
}

func TestGenerateSlotsNoPastSlotsToday(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	// It is 10:00 AM sharp on the target date; 9:00 and 10:00 are gone.
	now := time.Date(2026, 4, 6, 10, 0, 0, 0, loc)

	got := GenerateSlots(date, morningPlan(), nil, nil, now, loc)

	times := slotTimes(got.Slots)
	if len(times) != 1 || times[0] != "11:00 AM" {
		t.Fatalf("want [11:00 AM], got %v", times)
	}
}

func TestGenerateSlotsTagsNonWorkingDay(t *testing.T) {
	loc := time.UTC
	// 5 Apr 2026 is a Sunday.
	date := time.Date(2026, 4, 5, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)

	plan := morningPlan()
	plan.WorkingDays = map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true,
		time.Thursday: true, time.Friday: true,
	}

	got := GenerateSlots(date, plan, nil, nil, now, loc)
	if got.WorkingDay {
		t.Error("Sunday must be tagged non-working")
	}
	// The generator still emits candidates; the coach may book outside
	// normal hours.
	if len(got.Slots) != 3 {
		t.Errorf("expected 3 candidates on a non-working day, got %d", len(got.Slots))
	}
	if len(got.Available()) != 0 {
		t.Error("clients must not be offered slots on a non-working day")
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	now := time.Date(2026, 4, 6, 9, 30, 0, 0, loc)
	blocks := []domain.BlockedInterval{
		{Title: "Lunch", StartsAt: date.Add(11 * time.Hour), EndsAt: date.Add(12 * time.Hour)},
	}
	booked := []time.Time{date.Add(10 * time.Hour)}

	first := GenerateSlots(date, morningPlan(), blocks, booked, now, loc)
	for i := 0; i < 5; i++ {
		again := GenerateSlots(date, morningPlan(), blocks, booked, now, loc)
		if len(again.Slots) != len(first.Slots) {
			t.Fatalf("run %d: slot count changed: %d vs %d", i, len(again.Slots), len(first.Slots))
		}
		for j := range first.Slots {
			if again.Slots[j] != first.Slots[j] {
				t.Fatalf("run %d: slot %d differs: %+v vs %+v", i, j, again.Slots[j], first.Slots[j])
			}
		}
	}
}

func TestResolveDayPlanFallsBackOnMalformedConfig(t *testing.T) {
	wh := &domain.WorkingHours{
		StartTime:           "whenever",
		EndTime:             "late",
		SlotIntervalMinutes: 30,
	}

	plan := ResolveDayPlan(wh)
	if plan.Start != (TimeOfDay{Hour: 9}) || plan.End != (TimeOfDay{Hour: 18}) {
		t.Errorf("expected default 9:00-18:00 window, got %v-%v", plan.Start, plan.End)
	}
	// A valid interval survives even when the window falls back.
	if plan.SlotIntervalMinutes != 30 {
		t.Errorf("expected interval 30, got %d", plan.SlotIntervalMinutes)
	}
}

func TestResolveDayPlanRejectsInvertedWindow(t *testing.T) {
	wh := &domain.WorkingHours{
		StartTime: "6:00 PM",
		EndTime:   "9:00 AM",
	}

	plan := ResolveDayPlan(wh)
	if plan.Start != (TimeOfDay{Hour: 9}) || plan.End != (TimeOfDay{Hour: 18}) {
		t.Errorf("inverted window must fall back to defaults, got %v-%v", plan.Start, plan.End)
	}
}

func TestGenerateSlotsZeroCandidatesIsValid(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, 4, 6, 0, 0, 0, 0, loc)
	// Now is past the whole window.
	now := time.Date(2026, 4, 6, 13, 0, 0, 0, loc)

	got := GenerateSlots(date, morningPlan(), nil, nil, now, loc)
	if len(got.Slots) != 0 {
		t.Fatalf("expected no slots, got %v", slotTimes(got.Slots))
	}
}
