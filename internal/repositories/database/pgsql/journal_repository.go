package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	"github.com/quintalabs/bizcore/internal/models"
	"github.com/quintalabs/bizcore/internal/utils/mapping"
	"github.com/quintalabs/bizcore/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, organization_id, journal_number, transaction_date, description, currency_code, status, source, total_debits, total_credits, posted_by, posted_at, original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryWithTx
}

// newPgxJournalRepository creates a new repository for journal data.
// The account repository is needed to lock and update balances inside
// the posting transaction.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryWithTx) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (*domain.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.OrganizationID,
		&m.JournalNumber,
		&m.TransactionDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.Source,
		&m.TotalDebits,
		&m.TotalCredits,
		&m.PostedBy,
		&m.PostedAt,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

func scanJournalLine(row pgx.Row) (*domain.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	line := mapping.ToDomainJournalLine(m)
	return &line, nil
}

func insertJournalLinesTx(ctx context.Context, tx pgx.Tx, lines []models.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.JournalID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert journal line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal line insert batch: %w", err)
	}
	return batchErr
}

// SaveJournal persists a new draft journal and its lines in a single transaction,
// allocating the next journal number from the organization's sequence counter.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (int64, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for saving journal: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The row update serializes concurrent allocations for the same organization,
	// so journal numbers are gapless and strictly increasing.
	var journalNumber int64
	err = tx.QueryRow(ctx, `
		UPDATE organizations
		SET journal_seq = journal_seq + 1
		WHERE organization_id = $1
		RETURNING journal_seq;
	`, journal.OrganizationID).Scan(&journalNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: organization %s not found", apperrors.ErrNotFound, journal.OrganizationID)
		}
		return 0, fmt.Errorf("failed to allocate journal number for organization %s: %w", journal.OrganizationID, err)
	}

	journal.JournalNumber = journalNumber
	m := mapping.ToModelJournal(journal)

	_, err = tx.Exec(ctx, `
		INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`,
		m.JournalID,
		m.OrganizationID,
		m.JournalNumber,
		m.TransactionDate,
		m.Description,
		m.CurrencyCode,
		m.Status,
		m.Source,
		m.TotalDebits,
		m.TotalCredits,
		m.PostedBy,
		m.PostedAt,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal header %s: %w", m.JournalID, err)
	}

	modelLines := make([]models.JournalLine, len(lines))
	for i, line := range lines {
		modelLines[i] = mapping.ToModelJournalLine(line)
	}
	if err := insertJournalLinesTx(ctx, tx, modelLines); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for journal %s: %w", m.JournalID, err)
	}
	return journalNumber, nil
}

// ReplaceJournal updates a draft journal's header and replaces its lines wholesale.
func (r *PgxJournalRepository) ReplaceJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	m := mapping.ToModelJournal(journal)

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for updating journal %s: %w", m.JournalID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmdTag, err := tx.Exec(ctx, `
		UPDATE journals
		SET transaction_date = $2, description = $3, currency_code = $4, total_debits = $5, total_credits = $6, last_updated_at = $7, last_updated_by = $8
		WHERE journal_id = $1 AND status = 'DRAFT';
	`,
		m.JournalID,
		m.TransactionDate,
		m.Description,
		m.CurrencyCode,
		m.TotalDebits,
		m.TotalCredits,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal header %s: %w", m.JournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: draft journal %s not found", apperrors.ErrConflict, m.JournalID)
	}

	if len(lines) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, m.JournalID); err != nil {
			return fmt.Errorf("failed to delete lines for journal %s: %w", m.JournalID, err)
		}
		modelLines := make([]models.JournalLine, len(lines))
		for i, line := range lines {
			modelLines[i] = mapping.ToModelJournalLine(line)
		}
		if err := insertJournalLinesTx(ctx, tx, modelLines); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for journal %s: %w", m.JournalID, err)
	}
	return nil
}

// PostJournal flips a draft journal to POSTED and applies balance deltas to the
// affected accounts, all within one transaction. The status update is guarded by
// the DRAFT predicate so a concurrent double-post loses the race cleanly.
func (r *PgxJournalRepository) PostJournal(ctx context.Context, journalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for posting journal %s: %w", journalID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmdTag, err := tx.Exec(ctx, `
		UPDATE journals
		SET status = 'POSTED', posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE journal_id = $1 AND status = 'DRAFT';
	`, journalID, postedBy, postedAt)
	if err != nil {
		return fmt.Errorf("failed to mark journal %s as posted: %w", journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not in draft status", apperrors.ErrConflict, journalID)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}

	// Lock account rows before applying deltas to keep balances consistent
	// under concurrent postings.
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting journal %s: %w", journalID, err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy, postedAt); err != nil {
		return fmt.Errorf("failed to apply balance changes for journal %s: %w", journalID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for posting journal %s: %w", journalID, err)
	}
	return nil
}

// PostReversal posts a reversing draft, applies its balance deltas and voids
// the original journal within one transaction. Both status updates carry their
// expected current status in the WHERE clause, so a concurrent reversal of the
// same journal loses the race with no partial write.
func (r *PgxJournalRepository) PostReversal(ctx context.Context, reversingJournalID string, originalJournalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for reversing journal %s: %w", originalJournalID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmdTag, err := tx.Exec(ctx, `
		UPDATE journals
		SET status = 'POSTED', posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE journal_id = $1 AND status = 'DRAFT';
	`, reversingJournalID, postedBy, postedAt)
	if err != nil {
		return fmt.Errorf("failed to post reversing journal %s: %w", reversingJournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reversing journal %s is not in draft status", apperrors.ErrConflict, reversingJournalID)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for reversing journal %s: %w", reversingJournalID, err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy, postedAt); err != nil {
		return fmt.Errorf("failed to apply balance changes for reversing journal %s: %w", reversingJournalID, err)
	}

	cmdTag, err = tx.Exec(ctx, `
		UPDATE journals
		SET status = 'VOIDED', reversing_journal_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = 'POSTED';
	`, originalJournalID, reversingJournalID, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to void journal %s: %w", originalJournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not in posted status", apperrors.ErrConflict, originalJournalID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for reversing journal %s: %w", originalJournalID, err)
	}
	return nil
}

// DeleteJournal removes a journal and its lines.
func (r *PgxJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for deleting journal %s: %w", journalID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journalID); err != nil {
		return fmt.Errorf("failed to delete lines for journal %s: %w", journalID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID)
	if err != nil {
		return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for deleting journal %s: %w", journalID, err)
	}
	return nil
}

// FindJournalByID retrieves a specific journal by its unique ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	journal, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	return journal, nil
}

// ListJournalsByOrganization retrieves a paginated list of journals for an organization
// using token-based pagination, newest first.
func (r *PgxJournalRepository) ListJournalsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeVoided bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // fetch one extra to detect a next page

	statusFilter := ""
	if !includeVoided {
		statusFilter = "AND status != 'VOIDED'"
	}

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		transactionDate, createdAt, tokenErr := pagination.DecodeToken(*nextToken)
		if tokenErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}

		query := fmt.Sprintf(`
			SELECT %s
			FROM journals
			WHERE organization_id = $1 %s
			AND (transaction_date, created_at) < ($2, $3)
			ORDER BY transaction_date DESC, created_at DESC
			LIMIT $4;
		`, journalColumns, statusFilter)
		rows, err = r.Pool.Query(ctx, query, organizationID, transactionDate, createdAt, fetchLimit)
	} else {
		query := fmt.Sprintf(`
			SELECT %s
			FROM journals
			WHERE organization_id = $1 %s
			ORDER BY transaction_date DESC, created_at DESC
			LIMIT $2;
		`, journalColumns, statusFilter)
		rows, err = r.Pool.Query(ctx, query, organizationID, fetchLimit)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal row for organization %s: %w", organizationID, err)
		}
		journals = append(journals, *journal)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating journal rows for organization %s: %w", organizationID, rows.Err())
	}

	var newNextToken *string
	if len(journals) == fetchLimit {
		journals = journals[:limit]
		last := journals[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		newNextToken = &token
	}

	return journals, newNextToken, nil
}

// FindLinesByJournalID retrieves all lines for a single journal.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		line, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for journal %s: %w", journalID, err)
		}
		lines = append(lines, *line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line rows for journal %s: %w", journalID, rows.Err())
	}

	return lines, nil
}

// FindLinesByJournalIDs retrieves lines for multiple journals, grouped by journal ID.
func (r *PgxJournalRepository) FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = ANY($1) ORDER BY journal_id, created_at;`

	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journals: %w", err)
	}
	defer rows.Close()

	linesByJournal := make(map[string][]domain.JournalLine)
	for rows.Next() {
		line, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		linesByJournal[line.JournalID] = append(linesByJournal[line.JournalID], *line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", rows.Err())
	}

	return linesByJournal, nil
}

// ListLinesByAccountID retrieves a paginated ledger of lines for one account,
// newest first, using the owning journal's transaction date for ordering.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	// The owning journal's transaction date is selected alongside each line so
	// the pagination cursor can be built without a second query.
	baseQuery := `
		SELECT jl.line_id, jl.journal_id, jl.account_id, jl.debit, jl.credit, jl.description, jl.created_at, jl.created_by, jl.last_updated_at, jl.last_updated_by, j.transaction_date
		FROM journal_lines jl
		JOIN journals j ON j.journal_id = jl.journal_id
		WHERE j.organization_id = $1 AND jl.account_id = $2
	`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		transactionDate, createdAt, tokenErr := pagination.DecodeToken(*nextToken)
		if tokenErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}

		query := baseQuery + `
			AND (j.transaction_date, jl.created_at) < ($3, $4)
			ORDER BY j.transaction_date DESC, jl.created_at DESC
			LIMIT $5;
		`
		rows, err = r.Pool.Query(ctx, query, organizationID, accountID, transactionDate, createdAt, fetchLimit)
	} else {
		query := baseQuery + `
			ORDER BY j.transaction_date DESC, jl.created_at DESC
			LIMIT $3;
		`
		rows, err = r.Pool.Query(ctx, query, organizationID, accountID, fetchLimit)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	transactionDates := []time.Time{}
	for rows.Next() {
		var m models.JournalLine
		var transactionDate time.Time
		err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&transactionDate,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
		transactionDates = append(transactionDates, transactionDate)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, rows.Err())
	}

	var newNextToken *string
	if len(lines) == fetchLimit {
		lines = lines[:limit]
		last := lines[limit-1]
		token := pagination.EncodeToken(transactionDates[limit-1], last.CreatedAt)
		newNextToken = &token
	}

	return lines, newNextToken, nil
}
