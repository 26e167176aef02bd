package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Voided JournalStatus = "VOIDED"
)

// JournalSource indicates how a journal was produced.
type JournalSource string

const (
	SourceManual JournalSource = "MANUAL"
	SourceSystem JournalSource = "SYSTEM"
)

// Journal represents a journal header row.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	OrganizationID     string          `db:"organization_id"`
	JournalNumber      int64           `db:"journal_number"`
	TransactionDate    time.Time       `db:"transaction_date"`
	Description        string          `db:"description"`
	CurrencyCode       string          `db:"currency_code"`
	Status             JournalStatus   `db:"status"`
	Source             JournalSource   `db:"source"`
	TotalDebits        decimal.Decimal `db:"total_debits"`
	TotalCredits       decimal.Decimal `db:"total_credits"`
	PostedBy           *string         `db:"posted_by"`
	PostedAt           *time.Time      `db:"posted_at"`
	OriginalJournalID  *string         `db:"original_journal_id"`
	ReversingJournalID *string         `db:"reversing_journal_id"`
	AuditFields
}

// JournalLine represents a single debit or credit row within a journal.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	AuditFields
}
