package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestExpandOccurrencesBiweekly(t *testing.T) {
	loc := time.UTC
	// Monday Jan 1 anchor, every 2 weeks, through Jan 29.
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(2026, 1, 29, 0, 0, 0, 0, loc)

	dates, err := ExpandOccurrences(anchor, end, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Time{
		anchor,
		time.Date(2026, 1, 15, 0, 0, 0, 0, loc),
		time.Date(2026, 1, 29, 0, 0, 0, 0, loc),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("date %d: want %v, got %v", i, want[i], dates[i])
		}
	}
}

func TestExpandOccurrencesEndDateInclusive(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	// End exactly on an occurrence: included.
	dates, err := ExpandOccurrences(anchor, anchor.AddDate(0, 0, 7), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}

	// End one day short of the next occurrence: excluded.
	dates, err = ExpandOccurrences(anchor, anchor.AddDate(0, 0, 6), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
}

func TestExpandOccurrencesMonotonicAndBounded(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, loc)

	dates, err := ExpandOccurrences(anchor, end, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Fatalf("sequence not strictly increasing at %d: %v then %v", i, dates[i-1], dates[i])
		}
		if got := dates[i].Sub(dates[i-1]); got != 3*7*24*time.Hour {
			t.Fatalf("stride at %d: want 21 days, got %v", i, got)
		}
	}

	bound := int(end.Sub(anchor).Hours()/(24*7*3)) + 1
	if len(dates) > bound {
		t.Errorf("sequence length %d exceeds bound %d", len(dates), bound)
	}
}

func TestExpandOccurrencesWorkingDayFilterSkipsWithoutRescheduling(t *testing.T) {
	loc := time.UTC
	// Thursday Jan 1 2026 anchor, weekly. Weekdays only: every occurrence
	// lands on a Thursday, so the filter keeps them all; excluding Thursday
	// drops every occurrence rather than moving it.
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, loc)

	weekdays := map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true,
		time.Thursday: true, time.Friday: true,
	}
	dates, err := ExpandOccurrences(anchor, end, 1, weekdays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 5 {
		t.Fatalf("expected 5 Thursdays, got %d: %v", len(dates), dates)
	}

	noThursday := map[time.Weekday]bool{time.Monday: true}
	dates, err = ExpandOccurrences(anchor, end, 1, noThursday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("filter must skip, never reschedule; got %v", dates)
	}
}

func TestExpandOccurrencesRejectsMalformedInput(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)

	if _, err := ExpandOccurrences(anchor, anchor.AddDate(0, 1, 0), 0, nil); !errors.Is(err, ErrBadRecurrenceInterval) {
		t.Errorf("interval 0: want ErrBadRecurrenceInterval, got %v", err)
	}
	if _, err := ExpandOccurrences(anchor, anchor.AddDate(0, 0, -1), 1, nil); !errors.Is(err, ErrBadRecurrenceRange) {
		t.Errorf("end before anchor: want ErrBadRecurrenceRange, got %v", err)
	}
}

func TestExpandOccurrencesSingleDayRange(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)

	dates, err := ExpandOccurrences(anchor, anchor, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 1 || !dates[0].Equal(anchor) {
		t.Fatalf("expected exactly the anchor, got %v", dates)
	}
}
