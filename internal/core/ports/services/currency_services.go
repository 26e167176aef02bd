package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// CurrencySvcFacade manages the currency reference data.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actingUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
