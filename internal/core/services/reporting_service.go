package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
)

// ReportingService produces accounting reports from posted journal data.
type ReportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(rr portsrepo.ReportingRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.ReportingSvcFacade {
	return &ReportingService{
		BaseService:   BaseService{OrganizationAuthorizer: authorizer},
		reportingRepo: rr,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// TrialBalance builds the organization's trial balance as of a date. Only
// POSTED journals contribute; because every posted journal balances, the
// report totals always balance too.
func (s *ReportingService) TrialBalance(ctx context.Context, organizationID string, requestingUserID string, asOf time.Time) (*dto.TrialBalanceResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}

	rows, err := s.reportingRepo.TrialBalance(ctx, organizationID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	response := dto.ToTrialBalanceResponse(rows, asOf)
	return &response, nil
}
