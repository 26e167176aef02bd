package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFiscalPeriodContains(t *testing.T) {
	period := FiscalPeriod{
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)), "start date is inclusive")
	assert.True(t, period.Contains(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)), "end date is inclusive regardless of clock time")
	assert.True(t, period.Contains(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFiscalPeriodAllowsPosting(t *testing.T) {
	assert.True(t, FiscalPeriod{Status: PeriodOpen}.AllowsPosting())
	assert.False(t, FiscalPeriod{Status: PeriodClosed}.AllowsPosting())
	assert.False(t, FiscalPeriod{Status: PeriodLocked}.AllowsPosting(), "locked behaves like closed for posting")
}

func TestJournalLineHelpers(t *testing.T) {
	debit := JournalLine{Debit: decimal.NewFromInt(100), Credit: decimal.Zero}
	credit := JournalLine{Debit: decimal.Zero, Credit: decimal.NewFromInt(40)}

	assert.True(t, debit.IsDebit())
	assert.False(t, credit.IsDebit())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(40)))
}
