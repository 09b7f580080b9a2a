package analyzer

import "time"

// MonthStartsAfter returns n month-start dates. The first is the earliest
// month start on or after last plus one calendar month, where adding a
// month clamps to the end of a shorter month (Jan 31 becomes Feb 28/29).
func MonthStartsAfter(last time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}

	next := addMonthClamped(last, 1)
	first := time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, last.Location())
	if first.Before(next) {
		first = first.AddDate(0, 1, 0)
	}

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}

func addMonthClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
