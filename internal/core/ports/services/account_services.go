package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts management.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, organizationID string, accountID string, requestingUserID string) (*domain.Account, error)
	GetAccountByIDs(ctx context.Context, organizationID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, organizationID string, requestingUserID string, limit int, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string) error
}
