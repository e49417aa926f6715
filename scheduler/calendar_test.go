package scheduler

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOnly_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	in := time.Date(2025, time.September, 1, 15, 30, 45, 123, loc)

	got := dateOnly(in)

	if !got.Equal(date(2025, time.September, 1)) {
		t.Errorf("expected 2025-09-01 UTC midnight, got %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
}

func TestIsWorkingDay(t *testing.T) {
	// 2025-09-01 is a Monday.
	cases := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.September, 1), true},
		{date(2025, time.September, 5), true},
		{date(2025, time.September, 6), false},
		{date(2025, time.September, 7), false},
		{date(2025, time.September, 8), true},
	}
	for _, c := range cases {
		if got := isWorkingDay(c.day); got != c.want {
			t.Errorf("isWorkingDay(%s): expected %v, got %v", c.day.Format("2006-01-02"), c.want, got)
		}
	}
}

func TestNextWorkingDay(t *testing.T) {
	cases := []struct {
		from, want time.Time
	}{
		{date(2025, time.September, 1), date(2025, time.September, 2)},
		{date(2025, time.September, 5), date(2025, time.September, 8)},
		{date(2025, time.September, 6), date(2025, time.September, 8)},
		{date(2025, time.September, 7), date(2025, time.September, 8)},
	}
	for _, c := range cases {
		if got := nextWorkingDay(c.from); !got.Equal(c.want) {
			t.Errorf("nextWorkingDay(%s): expected %s, got %s",
				c.from.Format("2006-01-02"), c.want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	}
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		name string
		from time.Time
		days int
		want time.Time
	}{
		{"one day ends same day", date(2025, time.September, 1), 1, date(2025, time.September, 1)},
		{"full week", date(2025, time.September, 1), 5, date(2025, time.September, 5)},
		{"crosses weekend", date(2025, time.September, 1), 6, date(2025, time.September, 8)},
		{"friday plus two", date(2025, time.September, 5), 2, date(2025, time.September, 8)},
		{"two weeks", date(2025, time.September, 8), 10, date(2025, time.September, 19)},
		{"weekend start, one day", date(2025, time.September, 6), 1, date(2025, time.September, 6)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := advance(c.from, c.days); !got.Equal(c.want) {
				t.Errorf("expected %s, got %s", c.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestRetreat_MirrorsAdvance(t *testing.T) {
	cases := []struct {
		from time.Time
		days int
		want time.Time
	}{
		{date(2025, time.September, 5), 5, date(2025, time.September, 1)},
		{date(2025, time.September, 8), 2, date(2025, time.September, 5)},
		{date(2025, time.September, 19), 10, date(2025, time.September, 8)},
		{date(2025, time.September, 1), 1, date(2025, time.September, 1)},
	}
	for _, c := range cases {
		if got := retreat(c.from, c.days); !got.Equal(c.want) {
			t.Errorf("retreat(%s, %d): expected %s, got %s",
				c.from.Format("2006-01-02"), c.days, c.want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	}
}

func TestWorkingDaysNeeded(t *testing.T) {
	cases := []struct {
		effort, ratio float64
		want          int
	}{
		{5, 1.0, 5},
		{8, 0.8, 10},
		{0.5, 1.0, 1},
		{1, 0.25, 4},
		{2.5, 1.0, 3},
		{10, 0.3, 34},
	}
	for _, c := range cases {
		got, err := workingDaysNeeded(c.effort, c.ratio)
		if err != nil {
			t.Fatalf("workingDaysNeeded(%v, %v): unexpected error: %v", c.effort, c.ratio, err)
		}
		if got != c.want {
			t.Errorf("workingDaysNeeded(%v, %v): expected %d, got %d", c.effort, c.ratio, c.want, got)
		}
	}
}

func TestWorkingDaysNeeded_RejectsNonPositiveRatio(t *testing.T) {
	for _, ratio := range []float64{0, -1, -0.5} {
		if _, err := workingDaysNeeded(5, ratio); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ratio %v: expected ErrInvalidInput, got %v", ratio, err)
		}
	}
}
