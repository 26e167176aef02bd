package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/google/uuid"
)

// FiscalPeriodService manages fiscal periods and their operator-driven status
// transitions. The posting gate only reads periods; all mutation goes through
// this service.
type FiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(pr portsrepo.FiscalPeriodRepositoryFacade, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.FiscalPeriodSvcFacade {
	return &FiscalPeriodService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		periodRepo:  pr,
	}
}

var _ portssvc.FiscalPeriodSvcFacade = (*FiscalPeriodService)(nil)

// CreateFiscalPeriod creates a new OPEN fiscal period. Periods of an
// organization must not overlap.
func (s *FiscalPeriodService) CreateFiscalPeriod(ctx context.Context, organizationID string, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: period end date must not be before start date", apperrors.ErrValidation)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriod(ctx, organizationID, req.StartDate, req.EndDate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check period overlap", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if overlapping != nil {
		return nil, fmt.Errorf("%w: period overlaps existing period %s", apperrors.ErrConflict, overlapping.Name)
	}

	now := time.Now()
	period := domain.FiscalPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.PeriodOpen,
		IsYearEnd:      req.IsYearEnd,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("organization_id", organizationID), slog.String("name", req.Name))
	return &period, nil
}

// GetFiscalPeriodByID retrieves a single fiscal period.
func (s *FiscalPeriodService) GetFiscalPeriodByID(ctx context.Context, organizationID string, periodID string, requestingUserID string) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}

// ListFiscalPeriods retrieves all fiscal periods of the organization ordered
// by start date.
func (s *FiscalPeriodService) ListFiscalPeriods(ctx context.Context, organizationID string, requestingUserID string) ([]domain.FiscalPeriod, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	periods, err := s.periodRepo.ListPeriods(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	if periods == nil {
		periods = []domain.FiscalPeriod{}
	}
	return periods, nil
}

// UpdatePeriodStatus performs an explicit operator transition. Allowed moves
// are OPEN<->CLOSED and CLOSED<->LOCKED; everything else is rejected, so a
// locked period must pass through CLOSED before reopening.
func (s *FiscalPeriodService) UpdatePeriodStatus(ctx context.Context, organizationID string, periodID string, req dto.UpdatePeriodStatusRequest, actingUserID string) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if !transitionAllowed(period.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot transition period from %s to %s", apperrors.ErrConflict, period.Status, req.Status)
	}

	now := time.Now()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, req.Status, actingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update period status", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to update period status: %w", err)
	}

	period.Status = req.Status
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actingUserID

	s.LogInfo(ctx, "Fiscal period status updated", slog.String("period_id", periodID), slog.String("organization_id", organizationID), slog.String("status", string(req.Status)))
	return period, nil
}

func transitionAllowed(from, to domain.FiscalPeriodStatus) bool {
	switch from {
	case domain.PeriodOpen:
		return to == domain.PeriodClosed
	case domain.PeriodClosed:
		return to == domain.PeriodOpen || to == domain.PeriodLocked
	case domain.PeriodLocked:
		return to == domain.PeriodClosed
	}
	return false
}
