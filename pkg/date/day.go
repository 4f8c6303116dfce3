package date

import (
	"math"
	"time"
)

// DayOf truncates a point in time to midnight of its calendar day in the given location
func DayOf(t time.Time, location *time.Location) time.Time {
	t = t.In(location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location)
}

// SameDay checks whether two points in time fall onto the same calendar day in the given location
func SameDay(t1 time.Time, t2 time.Time, location *time.Location) bool {
	return DayOf(t1, location).Equal(DayOf(t2, location))
}

// DaysInclusive counts the calendar days from start to end including both endpoints.
// Returns 0 when end lies before start.
func DaysInclusive(start time.Time, end time.Time, location *time.Location) int {
	s := DayOf(start, location)
	e := DayOf(end, location)

	if e.Before(s) {
		return 0
	}

	// Rounding absorbs DST shifts, which make days 23 or 25 hours long
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}

// EachDay calls fn once per calendar day from start to end inclusive, in order
func EachDay(start time.Time, end time.Time, location *time.Location, fn func(day time.Time)) {
	s := DayOf(start, location)
	e := DayOf(end, location)

	for day := s; !day.After(e); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}
