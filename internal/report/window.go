package report

import (
	"time"
)

// PreviousMonth returns the half-open interval covering the calendar month
// before the one containing now: [first of previous month, first of current).
func PreviousMonth(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return end.AddDate(0, -1, 0), end
}

// PeriodLabel formats a window start as the human-readable report period.
func PeriodLabel(start time.Time) string {
	return start.Format("January 2006")
}
