package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// FiscalPeriodSvcFacade manages fiscal periods and their status transitions.
type FiscalPeriodSvcFacade interface {
	CreateFiscalPeriod(ctx context.Context, organizationID string, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)
	GetFiscalPeriodByID(ctx context.Context, organizationID string, periodID string, requestingUserID string) (*domain.FiscalPeriod, error)
	ListFiscalPeriods(ctx context.Context, organizationID string, requestingUserID string) ([]domain.FiscalPeriod, error)
	UpdatePeriodStatus(ctx context.Context, organizationID string, periodID string, req dto.UpdatePeriodStatusRequest, actingUserID string) (*domain.FiscalPeriod, error)
}
