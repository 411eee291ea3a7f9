package scheduling

import (
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"
)

func mkInterval(startHour, endHour int) Interval {
	day := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	return Interval{Start: day.Add(time.Duration(startHour) * time.Hour), End: day.Add(time.Duration(endHour) * time.Hour)}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "identical", a: mkInterval(9, 10), b: mkInterval(9, 10), want: true},
		{name: "contained", a: mkInterval(9, 12), b: mkInterval(10, 11), want: true},
		{name: "partial overlap", a: mkInterval(9, 11), b: mkInterval(10, 12), want: true},
		{name: "touching ends do not overlap", a: mkInterval(9, 10), b: mkInterval(10, 11), want: false},
		{name: "disjoint", a: mkInterval(9, 10), b: mkInterval(14, 15), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Errorf("Overlaps(a,b) = %v, want %v", got, tc.want)
			}
			// The predicate must be symmetric.
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Errorf("Overlaps(b,a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := mkInterval(9, 10)

	if !iv.Contains(iv.Start) {
		t.Error("start must be inside a half-open interval")
	}
	if iv.Contains(iv.End) {
		t.Error("end must be outside a half-open interval")
	}
	if !iv.Contains(iv.Start.Add(30 * time.Minute)) {
		t.Error("midpoint must be inside")
	}
	if iv.Contains(iv.Start.Add(-time.Minute)) {
		t.Error("instant before start must be outside")
	}
}

func TestBlockSpanAllDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	block := domain.BlockedInterval{
		Title:    "Vacation",
		StartsAt: time.Date(2026, 2, 12, 15, 0, 0, 0, loc),
		IsAllDay: true,
	}

	span := BlockSpan(block, loc)
	wantStart := time.Date(2026, 2, 12, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 2, 13, 0, 0, 0, 0, loc)
	if !span.Start.Equal(wantStart) || !span.End.Equal(wantEnd) {
		t.Errorf("all-day span: want [%v, %v), got [%v, %v)", wantStart, wantEnd, span.Start, span.End)
	}
}

func TestBlockSpanAllDayStableAcrossCallerZones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Materialized the way writes store it: the coach's full local day.
	block := domain.BlockedInterval{
		Title:    "Vacation",
		StartsAt: time.Date(2026, 6, 10, 0, 0, 0, 0, ny),
		EndsAt:   time.Date(2026, 6, 11, 0, 0, 0, 0, ny),
		IsAllDay: true,
		Timezone: "America/New_York",
	}

	evening := time.Date(2026, 6, 10, 20, 0, 0, 0, ny)
	for _, loc := range []*time.Location{ny, tokyo, time.UTC} {
		span := BlockSpan(block, loc)
		if !span.Start.Equal(block.StartsAt) || !span.End.Equal(block.EndsAt) {
			t.Errorf("zone %v: span [%v, %v) drifted from the stored day", loc, span.Start, span.End)
		}
		if !span.Contains(evening) {
			t.Errorf("zone %v: %v inside the blocked day reads unblocked", loc, evening)
		}
	}
}

func TestFirstBlockingPicksEarliestMatch(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 2, 12, 0, 0, 0, 0, loc)

	blocks := []domain.BlockedInterval{
		{Title: "Dentist", StartsAt: day.Add(9 * time.Hour), EndsAt: day.Add(11 * time.Hour)},
		{Title: "Errand", StartsAt: day.Add(10 * time.Hour), EndsAt: day.Add(12 * time.Hour)},
	}

	got := FirstBlocking(day.Add(10*time.Hour+30*time.Minute), blocks, loc)
	if got == nil || got.Title != "Dentist" {
		t.Fatalf("expected first matching block Dentist, got %+v", got)
	}

	if got := FirstBlocking(day.Add(14*time.Hour), blocks, loc); got != nil {
		t.Fatalf("expected no blocking interval at 14:00, got %+v", got)
	}
}
