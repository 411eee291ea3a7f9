package scheduling

import (
	"time"

	"peakform/coaching-app/internal/domain"
)

// Interval is a half-open span of absolute time [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect:
// [a.Start, a.End) overlaps [b.Start, b.End) iff a.Start < b.End && b.Start < a.End.
// The predicate is symmetric.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether instant t lies inside the half-open interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// IsValid reports Start < End.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// BlockSpan resolves a blocked interval to the half-open absolute span it
// occupies. All-day blocks are materialized to the full coach-local day when
// written, so the stored instants are authoritative in every caller zone.
// An all-day document without an end instant expands to the day bounds of
// its start in the block's own zone; loc is only the fallback when that zone
// is absent or unknown.
func BlockSpan(block domain.BlockedInterval, loc *time.Location) Interval {
	if block.IsAllDay && !block.StartsAt.Before(block.EndsAt) {
		if block.Timezone != "" {
			if blockLoc, err := time.LoadLocation(block.Timezone); err == nil {
				loc = blockLoc
			}
		}
		return DayBounds(block.StartsAt.In(loc), loc)
	}
	return Interval{Start: block.StartsAt, End: block.EndsAt}
}

// FirstBlocking returns the first blocked interval whose span contains the
// given instant, or nil. Blocks are checked in the order supplied; callers
// pass them sorted by start so the earliest match wins.
func FirstBlocking(instant time.Time, blocks []domain.BlockedInterval, loc *time.Location) *domain.BlockedInterval {
	for i := range blocks {
		if BlockSpan(blocks[i], loc).Contains(instant) {
			return &blocks[i]
		}
	}
	return nil
}
