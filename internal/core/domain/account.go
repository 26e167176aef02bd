package domain

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

// Account represents a general ledger account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID           string          `json:"accountID"`           // Primary Key (e.g., UUID)
	OrganizationID      string          `json:"organizationID"`      // FK -> organizations.organization_id (NON-NULL)
	Code                string          `json:"code"`                // Account code, unique within the organization (e.g., "1000")
	Name                string          `json:"name"`                // User-defined name
	AccountType         AccountType     `json:"accountType"`         // ASSET, LIABILITY, etc.
	CurrencyCode        string          `json:"currencyCode"`        // FK -> currencies.code (NON-NULL)
	Description         string          `json:"description"`         // Nullable user description
	IsActive            bool            `json:"isActive"`            // Soft delete or status flag
	IsSystem            bool            `json:"isSystem"`            // System accounts cannot be deactivated or deleted
	AllowManualJournals bool            `json:"allowManualJournals"` // Whether manual journals may reference this account
	AuditFields                         // Embed CreatedAt, CreatedBy, etc.
	Balance             decimal.Decimal `json:"balance"` // Cached balance, mutated only by posted journals
}
