package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// TrialBalance aggregates debit and credit totals per account from journals
// posted on or before asOf. Voided journals are excluded because their effect
// is cancelled by the posted reversal rather than removed.
func (r *PgxReportingRepository) TrialBalance(ctx context.Context, organizationID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(pl.debit), 0) AS total_debits,
		       COALESCE(SUM(pl.credit), 0) AS total_credits
		FROM accounts a
		LEFT JOIN (
			SELECT jl.account_id, jl.debit, jl.credit
			FROM journal_lines jl
			JOIN journals j ON j.journal_id = jl.journal_id
			WHERE j.organization_id = $1
			  AND j.status IN ('POSTED', 'VOIDED')
			  AND j.transaction_date <= $2
		) pl ON pl.account_id = a.account_id
		WHERE a.organization_id = $1 AND a.is_active = TRUE
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.TotalDebits, &row.TotalCredits); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row for organization %s: %w", organizationID, err)
		}
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating trial balance rows for organization %s: %w", organizationID, rows.Err())
	}

	return result, nil
}
