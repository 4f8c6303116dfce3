package date

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	loc, _ := time.LoadLocation("UTC")

	in := time.Date(2024, 1, 3, 17, 45, 12, 500, loc)
	out := DayOf(in, loc)

	want := time.Date(2024, 1, 3, 0, 0, 0, 0, loc)
	if !out.Equal(want) {
		t.Errorf("DayOf() = %v, want %v", out, want)
	}
}

func TestSameDay(t *testing.T) {
	loc, _ := time.LoadLocation("UTC")

	var tests = []struct {
		name string
		t1   time.Time
		t2   time.Time
		out  bool
	}{
		{
			"same day different clock",
			time.Date(2024, 1, 3, 0, 10, 0, 0, loc),
			time.Date(2024, 1, 3, 23, 50, 0, 0, loc),
			true,
		},
		{
			"adjacent days",
			time.Date(2024, 1, 3, 23, 59, 59, 0, loc),
			time.Date(2024, 1, 4, 0, 0, 0, 0, loc),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.t1, tt.t2, loc); got != tt.out {
				t.Errorf("SameDay() = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestDaysInclusive(t *testing.T) {
	loc, _ := time.LoadLocation("UTC")

	var tests = []struct {
		name  string
		start time.Time
		end   time.Time
		out   int
	}{
		{
			"five day window",
			time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			time.Date(2024, 1, 5, 0, 0, 0, 0, loc),
			5,
		},
		{
			"single day",
			time.Date(2024, 1, 1, 8, 0, 0, 0, loc),
			time.Date(2024, 1, 1, 17, 0, 0, 0, loc),
			1,
		},
		{
			"inverted window",
			time.Date(2024, 1, 5, 0, 0, 0, 0, loc),
			time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInclusive(tt.start, tt.end, loc); got != tt.out {
				t.Errorf("DaysInclusive() = %d, want %d", got, tt.out)
			}
		})
	}
}

func TestDaysInclusive_AcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// DST starts 2024-03-31 in Europe/Berlin
	start := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)

	if got := DaysInclusive(start, end, loc); got != 3 {
		t.Errorf("DaysInclusive() across DST = %d, want 3", got)
	}
}

func TestEachDay(t *testing.T) {
	loc, _ := time.LoadLocation("UTC")

	var days []time.Time
	EachDay(
		time.Date(2024, 1, 1, 10, 0, 0, 0, loc),
		time.Date(2024, 1, 3, 4, 0, 0, 0, loc),
		loc,
		func(day time.Time) { days = append(days, day) },
	)

	if len(days) != 3 {
		t.Fatalf("EachDay() visited %d days, want 3", len(days))
	}

	if !days[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("first day = %v", days[0])
	}
	if !days[2].Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, loc)) {
		t.Errorf("last day = %v", days[2])
	}
}
