package domain

import (
	"sort"
	"time"
)

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval of durationMinutes starting at start
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// IsEmpty returns true if the interval has no length
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	if i.IsEmpty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies entirely inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip returns the part of i inside bounds
func (i Interval) Clip(bounds Interval) Interval {
	start, end := i.Start, i.End
	if start.Before(bounds.Start) {
		start = bounds.Start
	}
	if end.After(bounds.End) {
		end = bounds.End
	}
	return Interval{Start: start, End: end}
}

// MergeIntervals sorts intervals by start and merges the ones that overlap or touch.
// Empty intervals are dropped.
func MergeIntervals(intervals []Interval) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, in := range intervals {
		if !in.IsEmpty() {
			sorted = append(sorted, in)
		}
	}
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := make([]Interval, 0, len(sorted))
	for _, in := range sorted {
		last := len(merged) - 1
		if last >= 0 && !in.Start.After(merged[last].End) {
			if in.End.After(merged[last].End) {
				merged[last].End = in.End
			}
			continue
		}
		merged = append(merged, in)
	}
	return merged
}

// Complement returns the parts of window not covered by busy.
// busy must be merged, sorted and clipped to window.
func Complement(window Interval, busy []Interval) []Interval {
	free := make([]Interval, 0, len(busy)+1)
	cursor := window.Start

	for _, b := range busy {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if window.End.After(cursor) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
