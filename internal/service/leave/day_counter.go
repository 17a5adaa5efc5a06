package leave

import "time"

// CountWeekdays counts Monday..Friday dates in [from, to], both ends
// inclusive. Only the calendar date of each bound is considered. A reversed
// range counts zero days.
func CountWeekdays(from, to time.Time) int {
	start := calendarDate(from)
	end := calendarDate(to)
	if end.Before(start) {
		return 0
	}

	days := 0
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
