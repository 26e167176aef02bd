package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	"github.com/quintalabs/bizcore/internal/models"
	"github.com/quintalabs/bizcore/internal/utils/mapping"
)

const fiscalPeriodColumns = `period_id, organization_id, name, start_date, end_date, status, is_year_end, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanFiscalPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.OrganizationID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.IsYearEnd,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// SavePeriod persists a new fiscal period.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		INSERT INTO fiscal_periods (` + fiscalPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.OrganizationID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.IsYearEnd,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fiscal period %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save fiscal period %s: %w", m.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a fiscal period by its ID.
func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE period_id = $1;`

	period, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period by ID %s: %w", periodID, err)
	}
	return period, nil
}

// FindPeriodForDate retrieves the period whose range contains the given date.
func (r *PgxFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + fiscalPeriodColumns + `
		FROM fiscal_periods
		WHERE organization_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1;
	`

	period, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, organizationID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period for date %s: %w", date.Format(time.DateOnly), err)
	}
	return period, nil
}

// ListPeriods retrieves all fiscal periods for an organization ordered by start date.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE organization_id = $1 ORDER BY start_date;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		period, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row for organization %s: %w", organizationID, err)
		}
		periods = append(periods, *period)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows for organization %s: %w", organizationID, rows.Err())
	}

	return periods, nil
}

// HasPeriods reports whether the organization has defined any fiscal periods.
func (r *PgxFiscalPeriodRepository) HasPeriods(ctx context.Context, organizationID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fiscal_periods WHERE organization_id = $1);`, organizationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check fiscal periods for organization %s: %w", organizationID, err)
	}
	return exists, nil
}

// FindOverlappingPeriod retrieves any period overlapping the given date range.
func (r *PgxFiscalPeriodRepository) FindOverlappingPeriod(ctx context.Context, organizationID string, startDate, endDate time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + fiscalPeriodColumns + `
		FROM fiscal_periods
		WHERE organization_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1;
	`

	period, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, organizationID, startDate, endDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find overlapping fiscal period for organization %s: %w", organizationID, err)
	}
	return period, nil
}

// UpdatePeriodStatus sets the status of a period.
func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.FiscalPeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, periodID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status for fiscal period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
