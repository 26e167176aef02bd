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
	"github.com/shopspring/decimal"
)

// AccountService manages the chart of accounts for organizations.
type AccountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(ar portsrepo.AccountRepositoryFacade, cr portsrepo.CurrencyRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.AccountSvcFacade {
	return &AccountService{
		BaseService:  BaseService{OrganizationAuthorizer: authorizer},
		accountRepo:  ar,
		currencyRepo: cr,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new account in the organization's chart of accounts.
func (s *AccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code %s not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency code: %w", err)
	}

	// Account codes are unique within an organization
	existing, err := s.accountRepo.FindAccountByCode(ctx, organizationID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists in organization", apperrors.ErrDuplicate, req.Code)
	}

	allowManual := true
	if req.AllowManualJournals != nil {
		allowManual = *req.AllowManualJournals
	}

	now := time.Now()
	account := domain.Account{
		AccountID:           uuid.NewString(),
		OrganizationID:      organizationID,
		Code:                req.Code,
		Name:                req.Name,
		AccountType:         req.AccountType,
		CurrencyCode:        req.CurrencyCode,
		Description:         req.Description,
		IsActive:            true,
		AllowManualJournals: allowManual,
		Balance:             decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("organization_id", organizationID), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("organization_id", organizationID), slog.String("code", req.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account, checking organization membership.
func (s *AccountService) GetAccountByID(ctx context.Context, organizationID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		// Hide cross-tenant existence
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts in one round trip.
// Accounts belonging to other organizations are omitted from the result.
func (s *AccountService) GetAccountByIDs(ctx context.Context, organizationID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.OrganizationID != organizationID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts in the organization.
func (s *AccountService) ListAccounts(ctx context.Context, organizationID string, requestingUserID string, limit int, offset int) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// UpdateAccount applies partial updates to an account's mutable fields.
func (s *AccountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.AllowManualJournals != nil {
		account.AllowManualJournals = *req.AllowManualJournals
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID), slog.String("organization_id", organizationID))
	return account, nil
}

// DeactivateAccount marks an account inactive. System accounts and accounts
// with a non-zero balance cannot be deactivated.
func (s *AccountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}
	if account.IsSystem {
		return fmt.Errorf("%w: system accounts cannot be deactivated", apperrors.ErrForbidden)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s has a non-zero balance", apperrors.ErrConflict, account.Code)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID), slog.String("organization_id", organizationID))
	return nil
}
