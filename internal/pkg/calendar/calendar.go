// Package calendar holds the working-day arithmetic shared by attendance
// statistics and leave requests. Weekends are Saturday and Sunday; no
// holiday calendar is applied.
package calendar

import "time"

const DateLayout = "2006-01-02"

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD string as a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WorkingDays counts Monday to Friday dates in [start, end]. It returns 0 when
// end is before start.
func WorkingDays(start, end time.Time) int {
	start, end = Date(start), Date(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// NextWorkingDay returns the first weekday strictly after t.
func NextWorkingDay(t time.Time) time.Time {
	d := Date(t).AddDate(0, 0, 1)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Overlaps reports whether the closed ranges [aStart, aEnd] and [bStart, bEnd]
// share at least one date.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
