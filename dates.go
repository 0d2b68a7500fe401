package xloffer

import "time"

// addMonths adds n calendar months, clamping the day to the end of the target
// month (31 Dec + 2 months = 28/29 Feb) instead of overflowing into the next.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addYears adds n years; 29 Feb lands on 28 Feb in non-leap years.
func addYears(t time.Time, n int) time.Time {
	return addMonths(t, 12*n)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dateOnly drops the clock part, keeping the calendar day as seen in t's location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
