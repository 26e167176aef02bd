package dto

import (
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response.
type TrialBalanceRowResponse struct {
	AccountID    string             `json:"accountID"`
	AccountCode  string             `json:"accountCode"`
	AccountName  string             `json:"accountName"`
	AccountType  domain.AccountType `json:"accountType"`
	TotalDebits  decimal.Decimal    `json:"totalDebits"`
	TotalCredits decimal.Decimal    `json:"totalCredits"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf         time.Time                 `json:"asOf"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"totalDebits"`
	TotalCredits decimal.Decimal           `json:"totalCredits"`
}

// ToTrialBalanceResponse converts domain trial balance rows to a DTO response,
// accumulating the report totals.
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow, asOf time.Time) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:         asOf,
		Rows:         make([]TrialBalanceRowResponse, len(rows)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for i, row := range rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:    row.AccountID,
			AccountCode:  row.AccountCode,
			AccountName:  row.AccountName,
			AccountType:  row.AccountType,
			TotalDebits:  row.TotalDebits,
			TotalCredits: row.TotalCredits,
		}
		response.TotalDebits = response.TotalDebits.Add(row.TotalDebits)
		response.TotalCredits = response.TotalCredits.Add(row.TotalCredits)
	}
	return response
}
