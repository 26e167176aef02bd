package repositories

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// PlanReader defines read operations for plan data.
type PlanReader interface {
	// FindPlanByID retrieves a plan by its unique identifier.
	FindPlanByID(ctx context.Context, planID string) (*domain.Plan, error)

	// FindPlanByPaystackCode retrieves a plan by its provider-side plan code.
	FindPlanByPaystackCode(ctx context.Context, paystackPlanCode string) (*domain.Plan, error)

	// ListPlans retrieves all plans.
	ListPlans(ctx context.Context) ([]domain.Plan, error)
}

// PlanWriter defines write operations for plan data.
type PlanWriter interface {
	// SavePlan persists a new plan.
	SavePlan(ctx context.Context, plan domain.Plan) error
}

// SubscriptionReader defines read operations for subscription data.
type SubscriptionReader interface {
	// FindSubscriptionByID retrieves a subscription by its unique identifier.
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)

	// FindSubscriptionByPaystackCode retrieves a subscription by its provider-side code.
	FindSubscriptionByPaystackCode(ctx context.Context, paystackSubscriptionCode string) (*domain.Subscription, error)

	// FindSubscriptionByOrganization retrieves the subscription of an organization.
	FindSubscriptionByOrganization(ctx context.Context, organizationID string) (*domain.Subscription, error)
}

// SubscriptionWriter defines write operations for subscription data.
type SubscriptionWriter interface {
	// SaveSubscription persists a new subscription.
	SaveSubscription(ctx context.Context, subscription domain.Subscription) error

	// UpdateSubscription updates an existing subscription.
	UpdateSubscription(ctx context.Context, subscription domain.Subscription) error
}

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByOrganization retrieves all invoices of an organization, newest first.
	ListInvoicesByOrganization(ctx context.Context, organizationID string) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice updates an existing invoice.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// MarkInvoicePaid persists the paid invoice, the extended subscription and
	// the next period's OPEN invoice within a single database transaction so a
	// partial settlement can never be observed.
	MarkInvoicePaid(ctx context.Context, invoice domain.Invoice, subscription domain.Subscription, nextInvoice domain.Invoice) error
}

// BillingRepositoryFacade combines all billing-related repository interfaces.
type BillingRepositoryFacade interface {
	PlanReader
	PlanWriter
	SubscriptionReader
	SubscriptionWriter
	InvoiceReader
	InvoiceWriter
}

// BillingRepositoryWithTx extends BillingRepositoryFacade with transaction capabilities.
type BillingRepositoryWithTx interface {
	BillingRepositoryFacade
	TransactionManager
}
