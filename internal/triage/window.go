package triage

import "time"

// Window is a calendar time window anchored at an evaluation instant.
// Windows widen monotonically: anything inside Today is inside ThisWeek, and
// anything inside ThisWeek is inside ThisMonth, for any fixed "now".
type Window int

const (
	Today Window = iota
	ThisWeek
	ThisMonth
)

// days returns the window half-width in calendar days.
func (w Window) days() int {
	switch w {
	case Today:
		return 0
	case ThisWeek:
		return 6
	default:
		return 30
	}
}

// IsSameDay reports whether a and b fall on the same local calendar day.
// Timestamps are compared by normalized calendar day, not by instant, so an
// appointment earlier the same day still counts as today.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Contains reports whether t falls inside the window anchored at now.
// Membership is by calendar-day distance, which keeps the nesting invariant
// independent of where week or month boundaries happen to fall.
func (w Window) Contains(now, t time.Time) bool {
	diff := startOfDay(t).Sub(startOfDay(now)) / (24 * time.Hour)
	if diff < 0 {
		diff = -diff
	}
	return int(diff) <= w.days()
}

// Filter returns the items whose timestamp falls inside the window. The input
// slice is never modified, so other windows can be re-derived from the same
// source.
func Filter[T any](items []T, now time.Time, w Window, at func(T) time.Time) []T {
	var out []T
	for _, item := range items {
		if w.Contains(now, at(item)) {
			out = append(out, item)
		}
	}
	return out
}
