package repositories

import (
	"context"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal period data.
type FiscalPeriodReader interface {
	// FindPeriodByID retrieves a specific fiscal period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForDate retrieves the fiscal period of an organization whose date
	// range contains the given date. Returns apperrors.ErrNotFound when none does.
	FindPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all fiscal periods for an organization ordered by start date.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error)

	// HasPeriods reports whether the organization has defined any fiscal periods.
	HasPeriods(ctx context.Context, organizationID string) (bool, error)

	// FindOverlappingPeriod retrieves any period of the organization overlapping
	// the [startDate, endDate] range. Returns apperrors.ErrNotFound when none does.
	FindOverlappingPeriod(ctx context.Context, organizationID string, startDate, endDate time.Time) (*domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal period data.
type FiscalPeriodWriter interface {
	// SavePeriod persists a new fiscal period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus sets the status of a period.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.FiscalPeriodStatus, userID string, now time.Time) error
}

// FiscalPeriodRepositoryFacade combines all fiscal-period repository interfaces.
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
