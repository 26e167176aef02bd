package domain

import "time"

// FiscalPeriodStatus indicates whether journals may post into a period.
type FiscalPeriodStatus string

const (
	PeriodOpen   FiscalPeriodStatus = "OPEN"
	PeriodClosed FiscalPeriodStatus = "CLOSED"
	PeriodLocked FiscalPeriodStatus = "LOCKED"
)

// FiscalPeriod is an administrator-defined date range gating journal posting.
// Transitions between statuses are operator-driven only; the posting gate never
// mutates periods. LOCKED behaves like CLOSED for posting purposes.
type FiscalPeriod struct {
	PeriodID       string             `json:"periodID"`
	OrganizationID string             `json:"organizationID"`
	Name           string             `json:"name"` // e.g., "FY2026 P01"
	StartDate      time.Time          `json:"startDate"`
	EndDate        time.Time          `json:"endDate"` // Inclusive
	Status         FiscalPeriodStatus `json:"status"`
	IsYearEnd      bool               `json:"isYearEnd"`
	AuditFields
}

// Contains reports whether d falls inside the period's date range (inclusive).
// Comparison is on calendar dates, ignoring clock time.
func (p FiscalPeriod) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// AllowsPosting reports whether a journal dated inside this period may post.
func (p FiscalPeriod) AllowsPosting() bool {
	return p.Status == PeriodOpen
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
