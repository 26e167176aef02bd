package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow is one account's debit/credit totals in a trial balance report.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}
