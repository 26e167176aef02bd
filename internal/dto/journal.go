package dto

import (
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest defines a single line within a journal creation request.
// Exactly one of debit/credit must be positive; the service enforces this.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalRequest defines the data needed to create a new draft journal.
type CreateJournalRequest struct {
	TransactionDate time.Time                  `json:"transactionDate" binding:"required"`
	Description     string                     `json:"description" binding:"required"`
	CurrencyCode    string                     `json:"currencyCode" binding:"required"`
	Lines           []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest defines the data allowed for updating a draft journal.
// When Lines is present the draft's lines are replaced wholesale.
type UpdateJournalRequest struct {
	TransactionDate *time.Time                 `json:"transactionDate"`
	Description     *string                    `json:"description"`
	Lines           []CreateJournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	OrganizationID     string                `json:"organizationID"`
	JournalNumber      int64                 `json:"journalNumber"`
	TransactionDate    time.Time             `json:"transactionDate"`
	Description        string                `json:"description"`
	CurrencyCode       string                `json:"currencyCode"`
	Status             domain.JournalStatus  `json:"status"`
	Source             domain.JournalSource  `json:"source"`
	TotalDebits        decimal.Decimal       `json:"totalDebits"`
	TotalCredits       decimal.Decimal       `json:"totalCredits"`
	PostedBy           *string               `json:"postedBy,omitempty"`
	PostedAt           *time.Time            `json:"postedAt,omitempty"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	Lines              []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ListJournalsParams holds query parameters for listing journals.
type ListJournalsParams struct {
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
	IncludeVoided bool    `form:"includeVoided"`
	IncludeLines  bool    `form:"includeLines"`
}

// ListJournalsResponse wraps a page of journals with the next pagination token.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListJournalLinesParams holds query parameters for listing lines by account.
type ListJournalLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListJournalLinesResponse wraps a page of journal lines.
type ListJournalLinesResponse struct {
	Lines     []JournalLineResponse `json:"lines"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its DTO.
func ToJournalLineResponse(line *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      line.LineID,
		JournalID:   line.JournalID,
		AccountID:   line.AccountID,
		Debit:       line.Debit,
		Credit:      line.Credit,
		Description: line.Description,
	}
}

// ToJournalLineResponses converts a slice of domain lines to DTOs.
func ToJournalLineResponses(lines []domain.JournalLine) []JournalLineResponse {
	responses := make([]JournalLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToJournalLineResponse(&lines[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		OrganizationID:     j.OrganizationID,
		JournalNumber:      j.JournalNumber,
		TransactionDate:    j.TransactionDate,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             j.Status,
		Source:             j.Source,
		TotalDebits:        j.TotalDebits,
		TotalCredits:       j.TotalCredits,
		PostedBy:           j.PostedBy,
		PostedAt:           j.PostedAt,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = ToJournalLineResponses(j.Lines)
	}
	return resp
}
