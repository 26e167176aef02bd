package repositories

import (
	"context"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries over posted journals.
type ReportingRepository interface {
	// TrialBalance returns per-account debit/credit totals from journals posted
	// on or before asOf.
	TrialBalance(ctx context.Context, organizationID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
