package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// BillingSvcFacade handles Paystack webhook dispatch and read access to
// plans, subscriptions and invoices.
type BillingSvcFacade interface {
	// HandleWebhookEvent dispatches a verified Paystack event to the matching
	// branch. Unrecognized event names are logged and ignored.
	HandleWebhookEvent(ctx context.Context, event dto.PaystackEvent) error

	CreatePlan(ctx context.Context, req dto.CreatePlanRequest, actingUserID string) (*domain.Plan, error)
	GetPlanByID(ctx context.Context, planID string) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)

	GetSubscriptionByOrganization(ctx context.Context, organizationID string, requestingUserID string) (*domain.Subscription, error)
	ListInvoicesByOrganization(ctx context.Context, organizationID string, requestingUserID string, limit int, offset int) ([]domain.Invoice, error)
}
