package dto

import (
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code                string             `json:"code" binding:"required"`
	Name                string             `json:"name" binding:"required"`
	AccountType         domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode        string             `json:"currencyCode" binding:"required"`
	Description         string             `json:"description"` // Optional
	AllowManualJournals *bool              `json:"allowManualJournals"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	AllowManualJournals *bool   `json:"allowManualJournals"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID           string             `json:"accountID"`
	OrganizationID      string             `json:"organizationID"`
	Code                string             `json:"code"`
	Name                string             `json:"name"`
	AccountType         domain.AccountType `json:"accountType"`
	CurrencyCode        string             `json:"currencyCode"`
	Description         string             `json:"description"`
	IsActive            bool               `json:"isActive"`
	IsSystem            bool               `json:"isSystem"`
	AllowManualJournals bool               `json:"allowManualJournals"`
	Balance             decimal.Decimal    `json:"balance"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
	LastUpdatedAt       time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy       string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           acc.AccountID,
		OrganizationID:      acc.OrganizationID,
		Code:                acc.Code,
		Name:                acc.Name,
		AccountType:         acc.AccountType,
		CurrencyCode:        acc.CurrencyCode,
		Description:         acc.Description,
		IsActive:            acc.IsActive,
		IsSystem:            acc.IsSystem,
		AllowManualJournals: acc.AllowManualJournals,
		Balance:             acc.Balance,
		CreatedAt:           acc.CreatedAt,
		CreatedBy:           acc.CreatedBy,
		LastUpdatedAt:       acc.LastUpdatedAt,
		LastUpdatedBy:       acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain accounts to DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
