package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	"github.com/quintalabs/bizcore/internal/models"
	"github.com/quintalabs/bizcore/internal/utils/mapping"
)

const planColumns = `plan_id, code, name, amount, currency_code, interval, paystack_plan_code, created_at, created_by, last_updated_at, last_updated_by`

const subscriptionColumns = `subscription_id, organization_id, plan_id, status, paystack_subscription_code, paystack_customer_code, billing_anniversary_day, current_period_start, current_period_end, created_at, created_by, last_updated_at, last_updated_by`

const invoiceColumns = `invoice_id, organization_id, subscription_id, invoice_number, amount, currency_code, status, period_start, period_end, paystack_reference, paid_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxBillingRepository struct {
	BaseRepository
}

// newPgxBillingRepository creates a new repository for plans, subscriptions and invoices.
func newPgxBillingRepository(pool *pgxpool.Pool) portsrepo.BillingRepositoryWithTx {
	return &PgxBillingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillingRepositoryWithTx = (*PgxBillingRepository)(nil)

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var m models.Plan
	err := row.Scan(
		&m.PlanID,
		&m.Code,
		&m.Name,
		&m.Amount,
		&m.CurrencyCode,
		&m.Interval,
		&m.PaystackPlanCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	plan := mapping.ToDomainPlan(m)
	return &plan, nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID,
		&m.OrganizationID,
		&m.PlanID,
		&m.Status,
		&m.PaystackSubscriptionCode,
		&m.PaystackCustomerCode,
		&m.BillingAnniversaryDay,
		&m.CurrentPeriodStart,
		&m.CurrentPeriodEnd,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	sub := mapping.ToDomainSubscription(m)
	return &sub, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.OrganizationID,
		&m.SubscriptionID,
		&m.InvoiceNumber,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.PaystackReference,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	invoice := mapping.ToDomainInvoice(m)
	return &invoice, nil
}

// SavePlan persists a new plan.
func (r *PgxBillingRepository) SavePlan(ctx context.Context, plan domain.Plan) error {
	m := mapping.ToModelPlan(plan)

	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PlanID,
		m.Code,
		m.Name,
		m.Amount,
		m.CurrencyCode,
		m.Interval,
		m.PaystackPlanCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: plan with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save plan %s: %w", m.PlanID, err)
	}
	return nil
}

// FindPlanByID retrieves a plan by its ID.
func (r *PgxBillingRepository) FindPlanByID(ctx context.Context, planID string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE plan_id = $1;`

	plan, err := scanPlan(r.Pool.QueryRow(ctx, query, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find plan by ID %s: %w", planID, err)
	}
	return plan, nil
}

// FindPlanByPaystackCode retrieves a plan by its provider-side plan code.
func (r *PgxBillingRepository) FindPlanByPaystackCode(ctx context.Context, paystackPlanCode string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE paystack_plan_code = $1;`

	plan, err := scanPlan(r.Pool.QueryRow(ctx, query, paystackPlanCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find plan by provider code %s: %w", paystackPlanCode, err)
	}
	return plan, nil
}

// ListPlans retrieves all plans.
func (r *PgxBillingRepository) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY amount;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, *plan)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", rows.Err())
	}

	return plans, nil
}

// SaveSubscription persists a new subscription.
func (r *PgxBillingRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := mapping.ToModelSubscription(subscription)

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SubscriptionID,
		m.OrganizationID,
		m.PlanID,
		m.Status,
		m.PaystackSubscriptionCode,
		m.PaystackCustomerCode,
		m.BillingAnniversaryDay,
		m.CurrentPeriodStart,
		m.CurrentPeriodEnd,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: organization %s already has a subscription", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return fmt.Errorf("failed to save subscription %s: %w", m.SubscriptionID, err)
	}
	return nil
}

func subscriptionUpdateArgs(m models.Subscription) []any {
	return []any{
		m.SubscriptionID,
		m.PlanID,
		m.Status,
		m.PaystackSubscriptionCode,
		m.PaystackCustomerCode,
		m.BillingAnniversaryDay,
		m.CurrentPeriodStart,
		m.CurrentPeriodEnd,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

const subscriptionUpdateQuery = `
	UPDATE subscriptions
	SET plan_id = $2, status = $3, paystack_subscription_code = $4, paystack_customer_code = $5, billing_anniversary_day = $6, current_period_start = $7, current_period_end = $8, last_updated_at = $9, last_updated_by = $10
	WHERE subscription_id = $1;
`

// UpdateSubscription updates an existing subscription.
func (r *PgxBillingRepository) UpdateSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := mapping.ToModelSubscription(subscription)

	cmdTag, err := r.Pool.Exec(ctx, subscriptionUpdateQuery, subscriptionUpdateArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", m.SubscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindSubscriptionByID retrieves a subscription by its ID.
func (r *PgxBillingRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1;`

	sub, err := scanSubscription(r.Pool.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by ID %s: %w", subscriptionID, err)
	}
	return sub, nil
}

// FindSubscriptionByPaystackCode retrieves a subscription by its provider-side code.
func (r *PgxBillingRepository) FindSubscriptionByPaystackCode(ctx context.Context, paystackSubscriptionCode string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE paystack_subscription_code = $1;`

	sub, err := scanSubscription(r.Pool.QueryRow(ctx, query, paystackSubscriptionCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by provider code: %w", err)
	}
	return sub, nil
}

// FindSubscriptionByOrganization retrieves the subscription of an organization.
func (r *PgxBillingRepository) FindSubscriptionByOrganization(ctx context.Context, organizationID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE organization_id = $1;`

	sub, err := scanSubscription(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription for organization %s: %w", organizationID, err)
	}
	return sub, nil
}

const invoiceInsertQuery = `
	INSERT INTO invoices (` + invoiceColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

func invoiceInsertArgs(m models.Invoice) []any {
	return []any{
		m.InvoiceID,
		m.OrganizationID,
		m.SubscriptionID,
		m.InvoiceNumber,
		m.Amount,
		m.CurrencyCode,
		m.Status,
		m.PeriodStart,
		m.PeriodEnd,
		m.PaystackReference,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveInvoice persists a new invoice. A collision on the invoice number maps to
// apperrors.ErrDuplicate so the service can treat replayed issuance as a no-op.
func (r *PgxBillingRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	_, err := r.Pool.Exec(ctx, invoiceInsertQuery, invoiceInsertArgs(m)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceNumber)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

func invoiceUpdateArgs(m models.Invoice) []any {
	return []any{
		m.InvoiceID,
		m.Status,
		m.PaystackReference,
		m.PaidAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

const invoiceUpdateQuery = `
	UPDATE invoices
	SET status = $2, paystack_reference = $3, paid_at = $4, last_updated_at = $5, last_updated_by = $6
	WHERE invoice_id = $1;
`

// UpdateInvoice updates an existing invoice's settlement fields.
func (r *PgxBillingRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	cmdTag, err := r.Pool.Exec(ctx, invoiceUpdateQuery, invoiceUpdateArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxBillingRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoicesByOrganization retrieves all invoices of an organization, newest first.
func (r *PgxBillingRepository) ListInvoicesByOrganization(ctx context.Context, organizationID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row for organization %s: %w", organizationID, err)
		}
		invoices = append(invoices, *invoice)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows for organization %s: %w", organizationID, rows.Err())
	}

	return invoices, nil
}

// MarkInvoicePaid persists the settled invoice, the extended subscription and
// the next period's OPEN invoice in one transaction so a webhook retry can
// never observe a half-applied payment or a missing renewal invoice.
func (r *PgxBillingRepository) MarkInvoicePaid(ctx context.Context, invoice domain.Invoice, subscription domain.Subscription, nextInvoice domain.Invoice) error {
	invoiceModel := mapping.ToModelInvoice(invoice)
	subscriptionModel := mapping.ToModelSubscription(subscription)
	nextInvoiceModel := mapping.ToModelInvoice(nextInvoice)

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for settling invoice %s: %w", invoiceModel.InvoiceID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmdTag, err := tx.Exec(ctx, invoiceUpdateQuery, invoiceUpdateArgs(invoiceModel)...)
	if err != nil {
		return fmt.Errorf("failed to settle invoice %s: %w", invoiceModel.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	cmdTag, err = tx.Exec(ctx, subscriptionUpdateQuery, subscriptionUpdateArgs(subscriptionModel)...)
	if err != nil {
		return fmt.Errorf("failed to extend subscription %s: %w", subscriptionModel.SubscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, invoiceInsertQuery, invoiceInsertArgs(nextInvoiceModel)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, nextInvoiceModel.InvoiceNumber)
		}
		return fmt.Errorf("failed to issue invoice %s: %w", nextInvoiceModel.InvoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for settling invoice %s: %w", invoiceModel.InvoiceID, err)
	}
	return nil
}
