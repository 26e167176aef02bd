package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger account row.
type Account struct {
	AccountID           string          `db:"account_id"`
	OrganizationID      string          `db:"organization_id"`
	Code                string          `db:"code"`
	Name                string          `db:"name"`
	AccountType         AccountType     `db:"account_type"`
	CurrencyCode        string          `db:"currency_code"`
	Description         string          `db:"description"`
	IsActive            bool            `db:"is_active"`
	IsSystem            bool            `db:"is_system"`
	AllowManualJournals bool            `db:"allow_manual_journals"`
	AuditFields
	Balance             decimal.Decimal `db:"balance"`
}
