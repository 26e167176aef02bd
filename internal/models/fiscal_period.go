package models

import "time"

// FiscalPeriodStatus indicates whether journals may post into a period.
type FiscalPeriodStatus string

const (
	PeriodOpen   FiscalPeriodStatus = "OPEN"
	PeriodClosed FiscalPeriodStatus = "CLOSED"
	PeriodLocked FiscalPeriodStatus = "LOCKED"
)

// FiscalPeriod represents a fiscal period row.
type FiscalPeriod struct {
	PeriodID       string             `db:"period_id"`
	OrganizationID string             `db:"organization_id"`
	Name           string             `db:"name"`
	StartDate      time.Time          `db:"start_date"`
	EndDate        time.Time          `db:"end_date"`
	Status         FiscalPeriodStatus `db:"status"`
	IsYearEnd      bool               `db:"is_year_end"`
	AuditFields
}
