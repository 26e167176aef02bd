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
	"github.com/quintalabs/bizcore/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed posting errors. Each wraps an apperrors sentinel so the handler layer
// maps them to HTTP statuses without knowing about posting semantics.
var (
	// ErrJournalUnbalanced is returned when a journal's total debits and total
	// credits are not equal.
	ErrJournalUnbalanced = fmt.Errorf("%w: journal debits and credits must be equal", apperrors.ErrValidation)

	// ErrPeriodClosed is returned when a journal's transaction date falls into a
	// fiscal period that is CLOSED or LOCKED, or outside all defined periods.
	ErrPeriodClosed = fmt.Errorf("%w: fiscal period is not open for posting", apperrors.ErrConflict)

	// ErrAlreadyPosted is returned when attempting to post a journal that has
	// already left DRAFT status.
	ErrAlreadyPosted = fmt.Errorf("%w: journal is already posted", apperrors.ErrConflict)
)

// JournalService implements the journal lifecycle: draft creation and editing,
// posting with balance application, deletion of drafts, and reversal of posted
// journals via counter-journals.
type JournalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepository
	periodRepo   portsrepo.FiscalPeriodRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(jr portsrepo.JournalRepositoryFacade, ar portsrepo.AccountRepositoryFacade, cr portsrepo.CurrencyRepository, pr portsrepo.FiscalPeriodRepositoryFacade, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.JournalSvcFacade {
	return &JournalService{
		BaseService:  BaseService{OrganizationAuthorizer: authorizer},
		journalRepo:  jr,
		accountRepo:  ar,
		currencyRepo: cr,
		periodRepo:   pr,
	}
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// CreateJournal creates a new draft journal. Drafts never touch account
// balances; the balance and line-shape invariants are still enforced here so a
// draft is always structurally postable.
func (s *JournalService) CreateJournal(ctx context.Context, organizationID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code %s not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency code: %w", err)
	}

	now := time.Now()
	journalID := uuid.NewString()
	lines := buildLines(journalID, req.Lines, creatorUserID, now)

	if err := s.validateLines(ctx, organizationID, req.CurrencyCode, lines, domain.SourceManual); err != nil {
		return nil, err
	}

	totalDebits, totalCredits := accounting.Totals(lines)
	if !totalDebits.Equal(totalCredits) {
		return nil, ErrJournalUnbalanced
	}

	journal := domain.Journal{
		JournalID:       journalID,
		OrganizationID:  organizationID,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		CurrencyCode:    req.CurrencyCode,
		Status:          domain.Draft,
		Source:          domain.SourceManual,
		TotalDebits:     totalDebits,
		TotalCredits:    totalCredits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	journalNumber, err := s.journalRepo.SaveJournal(ctx, journal, lines)
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	journal.JournalNumber = journalNumber
	journal.Lines = lines

	s.LogInfo(ctx, "Journal draft created", slog.String("journal_id", journalID), slog.Int64("journal_number", journalNumber), slog.String("organization_id", organizationID))
	return &journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *JournalService) GetJournalByID(ctx context.Context, organizationID string, journalID string, requestingUserID string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	journal, err := s.findOrgJournal(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal lines", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals retrieves a token-paginated page of the organization's journals.
func (s *JournalService) ListJournals(ctx context.Context, organizationID string, requestingUserID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournalsByOrganization(ctx, organizationID, limit, params.NextToken, params.IncludeVoided)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	if params.IncludeLines && len(journals) > 0 {
		journalIDs := make([]string, len(journals))
		for i := range journals {
			journalIDs[i] = journals[i].JournalID
		}
		linesByJournal, err := s.journalRepo.FindLinesByJournalIDs(ctx, journalIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to load lines for journal page", slog.String("organization_id", organizationID))
			return nil, fmt.Errorf("failed to load journal lines: %w", err)
		}
		for i := range journals {
			journals[i].Lines = linesByJournal[journals[i].JournalID]
		}
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		responses[i] = dto.ToJournalResponse(&journals[i])
	}
	return &dto.ListJournalsResponse{Journals: responses, NextToken: nextToken}, nil
}

// UpdateJournal applies edits to a draft journal. Posted and voided journals
// are immutable.
func (s *JournalService) UpdateJournal(ctx context.Context, organizationID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	journal, err := s.findOrgJournal(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("%w: only draft journals can be edited", apperrors.ErrConflict)
	}

	now := time.Now()
	if req.TransactionDate != nil {
		journal.TransactionDate = *req.TransactionDate
	}
	if req.Description != nil {
		journal.Description = *req.Description
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		lines = buildLines(journalID, req.Lines, requestingUserID, now)
		if err := s.validateLines(ctx, organizationID, journal.CurrencyCode, lines, journal.Source); err != nil {
			return nil, err
		}
		totalDebits, totalCredits := accounting.Totals(lines)
		if !totalDebits.Equal(totalCredits) {
			return nil, ErrJournalUnbalanced
		}
		journal.TotalDebits = totalDebits
		journal.TotalCredits = totalCredits
	} else {
		lines, err = s.journalRepo.FindLinesByJournalID(ctx, journalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load journal lines: %w", err)
		}
	}

	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.ReplaceJournal(ctx, *journal, lines); err != nil {
		s.LogError(ctx, err, "Failed to update journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}

	journal.Lines = lines
	s.LogInfo(ctx, "Journal draft updated", slog.String("journal_id", journalID), slog.String("organization_id", organizationID))
	return journal, nil
}

// PostJournal transitions a draft journal to POSTED, applying the cached
// balance deltas to every affected account. The status flip and balance
// updates happen atomically in the repository; a concurrent double-post loses
// the race and fails without side effects.
func (s *JournalService) PostJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	journal, err := s.findOrgJournal(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, ErrAlreadyPosted
	}

	if err := s.checkPeriodOpen(ctx, organizationID, journal.TransactionDate); err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}

	// Drafts are validated on write, but the balance invariant is cheap to
	// re-check and posting must never trust stored data alone.
	totalDebits, totalCredits := accounting.Totals(lines)
	if !totalDebits.Equal(totalCredits) {
		return nil, ErrJournalUnbalanced
	}

	balanceChanges, err := s.computeBalanceChanges(ctx, lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.journalRepo.PostJournal(ctx, journalID, actingUserID, now, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race against a concurrent post of the same draft.
			return nil, ErrAlreadyPosted
		}
		s.LogError(ctx, err, "Failed to post journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to post journal: %w", err)
	}

	journal.Status = domain.Posted
	journal.PostedBy = &actingUserID
	journal.PostedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actingUserID
	journal.Lines = lines

	s.LogInfo(ctx, "Journal posted", slog.String("journal_id", journalID), slog.Int64("journal_number", journal.JournalNumber), slog.String("organization_id", organizationID))
	return journal, nil
}

// DeleteJournal removes a draft journal and its lines. Posted and voided
// journals are part of the permanent record and cannot be deleted.
func (s *JournalService) DeleteJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) error {
	if err := s.AuthorizeUser(ctx, actingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	journal, err := s.findOrgJournal(ctx, organizationID, journalID)
	if err != nil {
		return err
	}
	if journal.Status != domain.Draft {
		return fmt.Errorf("%w: only draft journals can be deleted", apperrors.ErrConflict)
	}

	if err := s.journalRepo.DeleteJournal(ctx, journalID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal", slog.String("journal_id", journalID))
		return fmt.Errorf("failed to delete journal: %w", err)
	}

	s.LogInfo(ctx, "Journal draft deleted", slog.String("journal_id", journalID), slog.String("organization_id", organizationID))
	return nil
}

// ReverseJournal creates and posts a counter-journal with every line's debit
// and credit swapped, then marks the original VOIDED. The original's balance
// effect stays applied; the counter-journal negates it, so the audit trail
// keeps both entries.
func (s *JournalService) ReverseJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	original, err := s.findOrgJournal(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}
	switch original.Status {
	case domain.Posted:
		// reversible
	case domain.Voided:
		return nil, fmt.Errorf("%w: journal has already been reversed", apperrors.ErrConflict)
	default:
		return nil, fmt.Errorf("%w: only posted journals can be reversed", apperrors.ErrConflict)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: a reversing journal cannot itself be reversed", apperrors.ErrConflict)
	}

	now := time.Now()
	if err := s.checkPeriodOpen(ctx, organizationID, now); err != nil {
		return nil, err
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}

	reversingID := uuid.NewString()
	reversedLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		reversedLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   reversingID,
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actingUserID,
			},
		}
	}

	reversing := domain.Journal{
		JournalID:         reversingID,
		OrganizationID:    organizationID,
		TransactionDate:   now,
		Description:       fmt.Sprintf("Reversal of journal #%d: %s", original.JournalNumber, original.Description),
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Draft,
		Source:            domain.SourceSystem,
		TotalDebits:       original.TotalCredits,
		TotalCredits:      original.TotalDebits,
		OriginalJournalID: &journalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	journalNumber, err := s.journalRepo.SaveJournal(ctx, reversing, reversedLines)
	if err != nil {
		s.LogError(ctx, err, "Failed to save reversing journal", slog.String("original_journal_id", journalID))
		return nil, fmt.Errorf("failed to create reversing journal: %w", err)
	}
	reversing.JournalNumber = journalNumber

	balanceChanges, err := s.computeBalanceChanges(ctx, reversedLines)
	if err != nil {
		return nil, err
	}

	// Posting the counter-journal and voiding the original commit together.
	// If either side fails the balances stay untouched and the original stays
	// POSTED, so a retry starts from a clean slate.
	if err := s.journalRepo.PostReversal(ctx, reversingID, journalID, actingUserID, now, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race against a concurrent reversal of the same journal.
			return nil, fmt.Errorf("%w: journal has already been reversed", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to post reversal", slog.String("original_journal_id", journalID), slog.String("reversing_journal_id", reversingID))
		return nil, fmt.Errorf("failed to post reversal: %w", err)
	}
	reversing.Status = domain.Posted
	reversing.PostedBy = &actingUserID
	reversing.PostedAt = &now
	reversing.Lines = reversedLines

	s.LogInfo(ctx, "Journal reversed", slog.String("original_journal_id", journalID), slog.String("reversing_journal_id", reversingID), slog.String("organization_id", organizationID))
	return &reversing, nil
}

// ListLinesByAccount retrieves a token-paginated page of lines hitting a
// single account.
func (s *JournalService) ListLinesByAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, organizationID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list lines by account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list lines for account: %w", err)
	}

	return &dto.ListJournalLinesResponse{
		Lines:     dto.ToJournalLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

// findOrgJournal loads a journal and verifies it belongs to the organization.
func (s *JournalService) findOrgJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return journal, nil
}

// checkPeriodOpen enforces the fiscal period gate for a transaction date.
// Organizations without any defined periods post freely; once periods exist,
// the date must fall inside one with status OPEN. LOCKED behaves like CLOSED.
func (s *JournalService) checkPeriodOpen(ctx context.Context, organizationID string, date time.Time) error {
	hasPeriods, err := s.periodRepo.HasPeriods(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to check fiscal periods: %w", err)
	}
	if !hasPeriods {
		return nil
	}

	period, err := s.periodRepo.FindPeriodForDate(ctx, organizationID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrPeriodClosed
		}
		return fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if !period.AllowsPosting() {
		return ErrPeriodClosed
	}
	return nil
}

// computeBalanceChanges resolves account types for the lines and aggregates
// the signed per-account deltas posting will apply.
func (s *JournalService) computeBalanceChanges(ctx context.Context, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts for posting: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, acc := range accounts {
		accountTypes[id] = acc.AccountType
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return balanceChanges, nil
}

// validateLines checks line shape and the referenced accounts: every account
// must exist in the organization, be active, match the journal currency, and
// accept manual journals when the source is MANUAL.
func (s *JournalService) validateLines(ctx context.Context, organizationID, currencyCode string, lines []domain.JournalLine, source domain.JournalSource) error {
	if err := accounting.ValidateLines(lines); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to load accounts for validation: %w", err)
	}

	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if account.OrganizationID != organizationID {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
		if account.CurrencyCode != currencyCode {
			return fmt.Errorf("%w: account %s currency %s does not match journal currency %s", apperrors.ErrValidation, account.Code, account.CurrencyCode, currencyCode)
		}
		if source == domain.SourceManual && !account.AllowManualJournals {
			return fmt.Errorf("%w: account %s does not accept manual journals", apperrors.ErrValidation, account.Code)
		}
	}
	return nil
}

// buildLines materializes domain lines from request lines.
func buildLines(journalID string, reqLines []dto.CreateJournalLineRequest, userID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, rl := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   rl.AccountID,
			Debit:       rl.Debit,
			Credit:      rl.Credit,
			Description: rl.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}
