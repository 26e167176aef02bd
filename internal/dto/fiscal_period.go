package dto

import (
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the data needed to create a fiscal period.
type CreateFiscalPeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	IsYearEnd bool      `json:"isYearEnd"`
}

// UpdatePeriodStatusRequest defines the explicit operator-driven status transition.
type UpdatePeriodStatusRequest struct {
	Status domain.FiscalPeriodStatus `json:"status" binding:"required,oneof=OPEN CLOSED LOCKED"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID       string                    `json:"periodID"`
	OrganizationID string                    `json:"organizationID"`
	Name           string                    `json:"name"`
	StartDate      time.Time                 `json:"startDate"`
	EndDate        time.Time                 `json:"endDate"`
	Status         domain.FiscalPeriodStatus `json:"status"`
	IsYearEnd      bool                      `json:"isYearEnd"`
	CreatedAt      time.Time                 `json:"createdAt"`
	CreatedBy      string                    `json:"createdBy"`
}

// ListFiscalPeriodsResponse wraps the periods of an organization.
type ListFiscalPeriodsResponse struct {
	Periods []FiscalPeriodResponse `json:"periods"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:       p.PeriodID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         p.Status,
		IsYearEnd:      p.IsYearEnd,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}

// ToFiscalPeriodResponses converts a slice of domain periods to DTOs.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	responses := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return responses
}
