package util

import "time"

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the year and month following the given one
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// ValidMonth reports whether month is in 1..12
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// MonthRange returns the first and last day of a Gregorian month
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one, leap years included
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// CurrentMonthRange returns the calendar month containing now
func CurrentMonthRange(now time.Time) (time.Time, time.Time) {
	return MonthRange(now.Year(), int(now.Month()))
}
