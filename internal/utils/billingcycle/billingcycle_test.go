package billingcycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnniversaryDay(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected int
	}{
		{"mid-month stays as is", time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC), 15},
		{"first of month", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 1},
		{"day 28 stays as is", time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC), 28},
		{"day 29 clamps to 28", time.Date(2025, time.March, 29, 0, 0, 0, 0, time.UTC), 28},
		{"day 30 clamps to 28", time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), 28},
		{"day 31 clamps to 28", time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnniversaryDay(tt.date))
		})
	}
}

func TestNextPeriodEnd(t *testing.T) {
	tests := []struct {
		name           string
		start          time.Time
		anniversaryDay int
		expected       time.Time
	}{
		{
			"normal mid-month roll",
			time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC),
			15,
			time.Date(2025, time.April, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			"january into february respects short month",
			time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC),
			28,
			time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC),
		},
		{
			"february leap year",
			time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC),
			28,
			time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"december rolls into next year",
			time.Date(2025, time.December, 15, 23, 59, 59, 0, time.UTC),
			15,
			time.Date(2026, time.January, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			"anchor later than start day",
			time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
			28,
			time.Date(2025, time.May, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(NextPeriodEnd(tt.start, tt.anniversaryDay)),
				"expected %s, got %s", tt.expected, NextPeriodEnd(tt.start, tt.anniversaryDay))
		})
	}
}

func TestNextPeriodEndIsStable(t *testing.T) {
	// Chaining period ends with a fixed anchor must never drift: each hop lands
	// on the anchor day (or the clamped last day of a short month) and the hop
	// after a short month returns to the anchor.
	anchor := 28
	end := time.Date(2025, time.January, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		end = NextPeriodEnd(end, anchor)
		daysInMonth := DaysInMonth(end.Year(), end.Month())
		expectedDay := anchor
		if expectedDay > daysInMonth {
			expectedDay = daysInMonth
		}
		assert.Equal(t, expectedDay, end.Day(), "hop %d landed on %s", i, end)
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, time.January))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 30, DaysInMonth(2025, time.April))
	assert.Equal(t, 31, DaysInMonth(2025, time.December))
}
