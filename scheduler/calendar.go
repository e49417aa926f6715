package scheduler

import (
	"math"
	"time"
)

// dateOnly truncates a timestamp to its calendar date at UTC midnight. All
// engine arithmetic runs on these normalized values.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isWorkingDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// nextWorkingDay returns the first working day strictly after d.
func nextWorkingDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for !isWorkingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// advance returns the end date of a stretch of workingDays working days whose
// first day is date. The first day is consumed by date itself, so a one-day
// task starting Monday also ends that Monday.
func advance(date time.Time, workingDays int) time.Time {
	current := date
	for stepped := 0; stepped < workingDays-1; {
		current = current.AddDate(0, 0, 1)
		if isWorkingDay(current) {
			stepped++
		}
	}
	return current
}

// retreat is the mirror of advance: the start date of a stretch of
// workingDays working days whose last day is date.
func retreat(date time.Time, workingDays int) time.Time {
	current := date
	for stepped := 0; stepped < workingDays-1; {
		current = current.AddDate(0, 0, -1)
		if isWorkingDay(current) {
			stepped++
		}
	}
	return current
}

// workingDaysNeeded converts person-day effort into a working-day duration
// under the given allocation ratio, rounding up and never below one day.
func workingDaysNeeded(effort, allocationRatio float64) (int, error) {
	if math.IsNaN(allocationRatio) || allocationRatio <= 0 {
		return 0, invalidf("", "allocation ratio must be positive, got %v", allocationRatio)
	}
	days := int(math.Ceil(effort / allocationRatio))
	if days < 1 {
		days = 1
	}
	return days, nil
}
