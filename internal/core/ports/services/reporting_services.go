package services

import (
	"context"
	"time"

	"github.com/quintalabs/bizcore/internal/dto"
)

// ReportingSvcFacade produces accounting reports from posted journal data.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, organizationID string, requestingUserID string, asOf time.Time) (*dto.TrialBalanceResponse, error)
}
