package billingcycle

import "time"

// MaxAnniversaryDay caps the billing anchor at 28 so every month of every year
// contains the anchor day.
const MaxAnniversaryDay = 28

// AnniversaryDay returns the billing anchor day derived from a date: the
// day-of-month capped at 28.
func AnniversaryDay(d time.Time) int {
	day := d.UTC().Day()
	if day > MaxAnniversaryDay {
		return MaxAnniversaryDay
	}
	return day
}

// NextPeriodEnd computes the end of the billing period that begins at start,
// anchored on anniversaryDay. The result is always in the calendar month
// following start, on day min(anniversaryDay, days-in-that-month), preserving
// start's clock time in UTC.
func NextPeriodEnd(start time.Time, anniversaryDay int) time.Time {
	start = start.UTC()
	year, month, _ := start.Date()

	nextMonth := month + 1
	nextYear := year
	if nextMonth > time.December {
		nextMonth = time.January
		nextYear++
	}

	day := anniversaryDay
	if max := DaysInMonth(nextYear, nextMonth); day > max {
		day = max
	}
	if day < 1 {
		day = 1
	}

	h, min, sec := start.Clock()
	return time.Date(nextYear, nextMonth, day, h, min, sec, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
