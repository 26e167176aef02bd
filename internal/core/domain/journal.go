package domain

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

// Journal represents a single, balanced financial event composed of multiple lines.
// A journal starts as DRAFT; posting flips it to POSTED and applies account balance
// changes. Posted journals are immutable and may only be undone via a reversing
// counter-journal, which marks the original VOIDED.
type Journal struct {
	JournalID          string          `json:"journalID"`      // Primary Key (e.g., UUID)
	OrganizationID     string          `json:"organizationID"` // FK -> organizations.organization_id
	JournalNumber      int64           `json:"journalNumber"`  // Sequential per organization, assigned on create
	TransactionDate    time.Time       `json:"transactionDate"`
	Description        string          `json:"description"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             JournalStatus   `json:"status"`
	Source             JournalSource   `json:"source"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`  // Sum of line debits, maintained server-side
	TotalCredits       decimal.Decimal `json:"totalCredits"` // Sum of line credits, maintained server-side
	PostedBy           *string         `json:"postedBy,omitempty"`
	PostedAt           *time.Time      `json:"postedAt,omitempty"`
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`  // Set on a reversing journal
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"` // Set on a voided original
	Lines              []JournalLine   `json:"lines,omitempty"`              // Often loaded separately
	AuditFields
}

// JournalLine represents a single debit or credit within a journal,
// affecting exactly one account. Exactly one of Debit/Credit is non-zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"` // Nullable per-line description
	AuditFields
}

// IsDebit reports whether the line carries a debit amount.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
