package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/utils/billingcycle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService reacts to Paystack webhook events and exposes read access to
// plans, subscriptions and invoices. Signature verification happens in the
// handler; by the time an event reaches this service it is authentic.
type BillingService struct {
	BaseService
	billingRepo portsrepo.BillingRepositoryFacade
}

// NewBillingService creates a new BillingService.
func NewBillingService(br portsrepo.BillingRepositoryFacade, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.BillingSvcFacade {
	return &BillingService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		billingRepo: br,
	}
}

var _ portssvc.BillingSvcFacade = (*BillingService)(nil)

// HandleWebhookEvent dispatches a verified Paystack event to the matching
// branch. Recognized-but-inapplicable events return nil so the handler
// acknowledges with 200 and Paystack stops retrying.
func (s *BillingService) HandleWebhookEvent(ctx context.Context, event dto.PaystackEvent) error {
	switch event.Event {
	case dto.EventChargeSuccess:
		var data dto.ChargeSuccessData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("%w: malformed charge.success payload: %s", apperrors.ErrValidation, err.Error())
		}
		return s.handleChargeSuccess(ctx, data)
	case dto.EventChargeFailed:
		var data dto.ChargeFailedData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("%w: malformed charge.failed payload: %s", apperrors.ErrValidation, err.Error())
		}
		return s.handleChargeFailed(ctx, data)
	case dto.EventSubscriptionUpdate:
		var data dto.SubscriptionUpdateData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("%w: malformed subscription.update payload: %s", apperrors.ErrValidation, err.Error())
		}
		return s.handleSubscriptionUpdate(ctx, data)
	case dto.EventSubscriptionDisable:
		var data dto.SubscriptionDisableData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("%w: malformed subscription.disable payload: %s", apperrors.ErrValidation, err.Error())
		}
		return s.handleSubscriptionDisable(ctx, data)
	default:
		s.LogInfo(ctx, "Ignoring unhandled paystack event", slog.String("event", event.Event))
		return nil
	}
}

// handleChargeSuccess covers both charge shapes: a first charge carrying
// organization/plan metadata activates a subscription; a renewal charge
// carrying invoice metadata settles that invoice.
func (s *BillingService) handleChargeSuccess(ctx context.Context, data dto.ChargeSuccessData) error {
	if data.Metadata.InvoiceID != "" {
		return s.settleInvoice(ctx, data)
	}
	if data.Metadata.OrganizationID != "" && data.Metadata.PlanCode != "" {
		return s.activateSubscription(ctx, data)
	}
	s.LogInfo(ctx, "charge.success without actionable metadata, ignoring", slog.String("reference", data.Reference))
	return nil
}

// activateSubscription creates (or re-activates) the organization's
// subscription off the first successful charge. The billing period window is
// anchored on the charge's paid_at, not on processing time.
func (s *BillingService) activateSubscription(ctx context.Context, data dto.ChargeSuccessData) error {
	plan, err := s.billingRepo.FindPlanByPaystackCode(ctx, data.Metadata.PlanCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "charge.success references unknown plan", slog.String("plan_code", data.Metadata.PlanCode))
			// Acknowledge; retrying will not make the plan exist.
			return nil
		}
		return fmt.Errorf("failed to look up plan: %w", err)
	}

	paidAt := data.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	anniversaryDay := billingcycle.AnniversaryDay(paidAt)
	periodStart := paidAt.UTC()
	periodEnd := billingcycle.NextPeriodEnd(periodStart, anniversaryDay)

	now := time.Now()
	existing, err := s.billingRepo.FindSubscriptionByOrganization(ctx, data.Metadata.OrganizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	if existing != nil {
		existing.PlanID = plan.PlanID
		existing.Status = domain.SubscriptionActive
		existing.PaystackSubscriptionCode = data.SubscriptionCode
		existing.PaystackCustomerCode = data.Customer.CustomerCode
		existing.BillingAnniversaryDay = anniversaryDay
		existing.CurrentPeriodStart = periodStart
		existing.CurrentPeriodEnd = periodEnd
		existing.LastUpdatedAt = now
		if err := s.billingRepo.UpdateSubscription(ctx, *existing); err != nil {
			return fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		s.LogInfo(ctx, "Subscription reactivated", slog.String("subscription_id", existing.SubscriptionID), slog.String("organization_id", existing.OrganizationID))
		return s.issueRenewalInvoice(ctx, *existing, *plan, now)
	}

	subscription := domain.Subscription{
		SubscriptionID:           uuid.NewString(),
		OrganizationID:           data.Metadata.OrganizationID,
		PlanID:                   plan.PlanID,
		Status:                   domain.SubscriptionActive,
		PaystackSubscriptionCode: data.SubscriptionCode,
		PaystackCustomerCode:     data.Customer.CustomerCode,
		BillingAnniversaryDay:    anniversaryDay,
		CurrentPeriodStart:       periodStart,
		CurrentPeriodEnd:         periodEnd,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.billingRepo.SaveSubscription(ctx, subscription); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	s.LogInfo(ctx, "Subscription activated", slog.String("subscription_id", subscription.SubscriptionID), slog.String("organization_id", subscription.OrganizationID), slog.String("plan_code", plan.Code))
	return s.issueRenewalInvoice(ctx, subscription, *plan, now)
}

// issueRenewalInvoice opens the invoice that covers the subscription's current
// period. The invoice number is derived from the subscription and the period
// end, so a replayed activation event collides with the invoice it already
// issued instead of raising a second one.
func (s *BillingService) issueRenewalInvoice(ctx context.Context, subscription domain.Subscription, plan domain.Plan, now time.Time) error {
	invoice := buildRenewalInvoice(subscription, plan, now)
	if err := s.billingRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Invoice for period already issued", slog.String("invoice_number", invoice.InvoiceNumber), slog.String("subscription_id", subscription.SubscriptionID))
			return nil
		}
		return fmt.Errorf("failed to issue invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice issued", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber), slog.String("subscription_id", subscription.SubscriptionID))
	return nil
}

// buildRenewalInvoice materializes the OPEN invoice for the subscription's
// current billing period at the plan's current price.
func buildRenewalInvoice(subscription domain.Subscription, plan domain.Plan, now time.Time) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: subscription.OrganizationID,
		SubscriptionID: subscription.SubscriptionID,
		InvoiceNumber:  renewalInvoiceNumber(subscription),
		Amount:         plan.Amount,
		CurrencyCode:   plan.CurrencyCode,
		Status:         domain.InvoiceOpen,
		PeriodStart:    subscription.CurrentPeriodStart,
		PeriodEnd:      subscription.CurrentPeriodEnd,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// renewalInvoiceNumber derives a stable per-period invoice number. One
// subscription can only ever hold one invoice per period end month.
func renewalInvoiceNumber(subscription domain.Subscription) string {
	short := subscription.SubscriptionID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("INV-%s-%s", strings.ToUpper(short), subscription.CurrentPeriodEnd.UTC().Format("200601"))
}

// settleInvoice marks the referenced invoice PAID and extends the owning
// subscription's period window. Only an OPEN invoice mutates anything, which
// makes this branch safe under Paystack's at-least-once delivery.
func (s *BillingService) settleInvoice(ctx context.Context, data dto.ChargeSuccessData) error {
	invoice, err := s.billingRepo.FindInvoiceByID(ctx, data.Metadata.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "charge.success references unknown invoice", slog.String("invoice_id", data.Metadata.InvoiceID))
			return nil
		}
		return fmt.Errorf("failed to look up invoice: %w", err)
	}

	if invoice.Status != domain.InvoiceOpen {
		s.LogInfo(ctx, "Invoice not open, acknowledging without mutation", slog.String("invoice_id", invoice.InvoiceID), slog.String("status", string(invoice.Status)))
		return nil
	}

	subscription, err := s.billingRepo.FindSubscriptionByID(ctx, invoice.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to look up subscription for invoice: %w", err)
	}

	plan, err := s.billingRepo.FindPlanByID(ctx, subscription.PlanID)
	if err != nil {
		return fmt.Errorf("failed to look up plan for renewal invoice: %w", err)
	}

	paidAt := data.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	now := time.Now()

	invoice.Status = domain.InvoicePaid
	invoice.PaidAt = &paidAt
	invoice.PaystackReference = data.Reference
	invoice.LastUpdatedAt = now

	// The next window rolls forward from the invoiced period's end, anchored on
	// the anniversary day. Processing time plays no part, so a delayed event
	// extends by exactly one period.
	subscription.Status = domain.SubscriptionActive
	subscription.CurrentPeriodStart = invoice.PeriodEnd
	subscription.CurrentPeriodEnd = billingcycle.NextPeriodEnd(invoice.PeriodEnd, subscription.BillingAnniversaryDay)
	subscription.LastUpdatedAt = now

	// Settlement and issuance of the next period's invoice commit together,
	// so every paid period always has its successor invoice on record.
	nextInvoice := buildRenewalInvoice(*subscription, *plan, now)
	if err := s.billingRepo.MarkInvoicePaid(ctx, *invoice, *subscription, nextInvoice); err != nil {
		return fmt.Errorf("failed to settle invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice settled", slog.String("invoice_id", invoice.InvoiceID), slog.String("subscription_id", subscription.SubscriptionID), slog.String("reference", data.Reference), slog.String("next_invoice_id", nextInvoice.InvoiceID))
	return nil
}

// handleChargeFailed moves the subscription behind an OPEN invoice to PAST_DUE.
func (s *BillingService) handleChargeFailed(ctx context.Context, data dto.ChargeFailedData) error {
	if data.Metadata.InvoiceID == "" {
		s.LogInfo(ctx, "charge.failed without invoice metadata, ignoring", slog.String("reference", data.Reference))
		return nil
	}

	invoice, err := s.billingRepo.FindInvoiceByID(ctx, data.Metadata.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "charge.failed references unknown invoice", slog.String("invoice_id", data.Metadata.InvoiceID))
			return nil
		}
		return fmt.Errorf("failed to look up invoice: %w", err)
	}
	if invoice.Status != domain.InvoiceOpen {
		s.LogInfo(ctx, "charge.failed for non-open invoice, ignoring", slog.String("invoice_id", invoice.InvoiceID))
		return nil
	}

	subscription, err := s.billingRepo.FindSubscriptionByID(ctx, invoice.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to look up subscription for invoice: %w", err)
	}

	subscription.Status = domain.SubscriptionPastDue
	subscription.LastUpdatedAt = time.Now()
	if err := s.billingRepo.UpdateSubscription(ctx, *subscription); err != nil {
		return fmt.Errorf("failed to mark subscription past due: %w", err)
	}
	s.LogInfo(ctx, "Subscription marked past due", slog.String("subscription_id", subscription.SubscriptionID), slog.String("invoice_id", invoice.InvoiceID))
	return nil
}

// handleSubscriptionUpdate applies provider-side plan and schedule changes to
// the local subscription matched by subscription code.
func (s *BillingService) handleSubscriptionUpdate(ctx context.Context, data dto.SubscriptionUpdateData) error {
	subscription, err := s.billingRepo.FindSubscriptionByPaystackCode(ctx, data.SubscriptionCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "subscription.update for unknown subscription, ignoring", slog.String("subscription_code", data.SubscriptionCode))
			return nil
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	if data.Plan.PlanCode != "" {
		plan, err := s.billingRepo.FindPlanByPaystackCode(ctx, data.Plan.PlanCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to look up plan: %w", err)
		}
		if plan != nil {
			subscription.PlanID = plan.PlanID
		}
	}
	if data.NextPaymentDate != nil {
		subscription.CurrentPeriodEnd = data.NextPaymentDate.UTC()
	}
	subscription.LastUpdatedAt = time.Now()

	if err := s.billingRepo.UpdateSubscription(ctx, *subscription); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	s.LogInfo(ctx, "Subscription updated from provider event", slog.String("subscription_id", subscription.SubscriptionID))
	return nil
}

// handleSubscriptionDisable cancels the local subscription matched by
// subscription code.
func (s *BillingService) handleSubscriptionDisable(ctx context.Context, data dto.SubscriptionDisableData) error {
	subscription, err := s.billingRepo.FindSubscriptionByPaystackCode(ctx, data.SubscriptionCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "subscription.disable for unknown subscription, ignoring", slog.String("subscription_code", data.SubscriptionCode))
			return nil
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	subscription.Status = domain.SubscriptionCanceled
	subscription.LastUpdatedAt = time.Now()
	if err := s.billingRepo.UpdateSubscription(ctx, *subscription); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	s.LogInfo(ctx, "Subscription canceled from provider event", slog.String("subscription_id", subscription.SubscriptionID))
	return nil
}

// CreatePlan registers a billable plan mirroring a Paystack plan.
func (s *BillingService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest, actingUserID string) (*domain.Plan, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: plan amount must be positive", apperrors.ErrValidation)
	}

	existing, err := s.billingRepo.FindPlanByPaystackCode(ctx, req.PaystackPlanCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check plan code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: plan with paystack code %s already exists", apperrors.ErrDuplicate, req.PaystackPlanCode)
	}

	now := time.Now()
	plan := domain.Plan{
		PlanID:           uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		Amount:           req.Amount,
		CurrencyCode:     req.CurrencyCode,
		Interval:         domain.IntervalMonthly,
		PaystackPlanCode: req.PaystackPlanCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.billingRepo.SavePlan(ctx, plan); err != nil {
		s.LogError(ctx, err, "Failed to save plan", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	s.LogInfo(ctx, "Plan created", slog.String("plan_id", plan.PlanID), slog.String("code", plan.Code))
	return &plan, nil
}

// GetPlanByID retrieves a plan.
func (s *BillingService) GetPlanByID(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.billingRepo.FindPlanByID(ctx, planID)
}

// ListPlans retrieves all plans.
func (s *BillingService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.billingRepo.ListPlans(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list plans")
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, nil
}

// GetSubscriptionByOrganization retrieves the organization's subscription.
func (s *BillingService) GetSubscriptionByOrganization(ctx context.Context, organizationID string, requestingUserID string) (*domain.Subscription, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.billingRepo.FindSubscriptionByOrganization(ctx, organizationID)
}

// ListInvoicesByOrganization retrieves the organization's invoices, newest first.
func (s *BillingService) ListInvoicesByOrganization(ctx context.Context, organizationID string, requestingUserID string, limit int, offset int) ([]domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	invoices, err := s.billingRepo.ListInvoicesByOrganization(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	if offset > 0 {
		if offset >= len(invoices) {
			return []domain.Invoice{}, nil
		}
		invoices = invoices[offset:]
	}
	if limit > 0 && limit < len(invoices) {
		invoices = invoices[:limit]
	}
	return invoices, nil
}
