package payroll

import (
	"sort"
	"time"
)

// =============================================================================
// PAY PERIOD RESOLUTION - which period does a calendar date belong to?
// =============================================================================

// ResolvePeriodStart returns the canonical start date ("2006-01-02") of the
// pay period containing date, given the configured start days-of-month.
//
// The period start is the largest configured start day not after the date's
// day-of-month. If every configured day falls later in the month, the period
// began on the largest start day of the previous month. A start day that
// exceeds a month's length clamps to that month's last day, so a configured
// day 31 still yields exactly one well-defined start in a 30-day month.
//
// Duplicate or unsorted startDays do not affect the result.
func ResolvePeriodStart(date time.Time, startDays []int) string {
	days := normalizeStartDays(startDays)

	year, month, day := date.Date()
	loc := date.Location()

	// Largest start day <= today, clamped to this month.
	for i := len(days) - 1; i >= 0; i-- {
		start := clampDay(days[i], year, month)
		if start <= day {
			return time.Date(year, month, start, 0, 0, 0, 0, loc).Format(DateLayout)
		}
	}

	// Every start day is after today: period began in the previous month.
	prev := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	pYear, pMonth := prev.Year(), prev.Month()
	start := clampDay(days[len(days)-1], pYear, pMonth)
	return time.Date(pYear, pMonth, start, 0, 0, 0, 0, loc).Format(DateLayout)
}

// normalizeStartDays sorts ascending and removes duplicates.
func normalizeStartDays(startDays []int) []int {
	days := append([]int(nil), startDays...)
	sort.Ints(days)
	out := days[:0]
	for _, d := range days {
		if len(out) == 0 || d != out[len(out)-1] {
			out = append(out, d)
		}
	}
	return out
}

// clampDay limits a start day to the number of days in the given month.
func clampDay(day int, year int, month time.Month) int {
	last := daysInMonth(year, month)
	if day > last {
		return last
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
