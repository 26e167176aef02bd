package dto

import (
	"encoding/json"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Paystack webhook event names this application reacts to. Anything else is
// acknowledged without mutation.
const (
	EventChargeSuccess       = "charge.success"
	EventChargeFailed        = "charge.failed"
	EventSubscriptionUpdate  = "subscription.update"
	EventSubscriptionDisable = "subscription.disable"
)

// PaystackEvent is the webhook envelope: the event name discriminates how Data
// is decoded. Per-event payloads are typed below rather than inspected field by field.
type PaystackEvent struct {
	Event string          `json:"event" binding:"required"`
	Data  json.RawMessage `json:"data" binding:"required"`
}

// PaystackCustomer identifies the paying customer on provider events.
type PaystackCustomer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// PaystackPlan carries plan details on charge and subscription events.
type PaystackPlan struct {
	PlanCode string `json:"plan_code"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"` // Subunits (kobo/cents)
}

// ChargeMetadata is the custom metadata we attach when initializing charges.
// New-subscription charges carry OrganizationID+PlanCode; renewal charges carry InvoiceID.
type ChargeMetadata struct {
	OrganizationID string `json:"organization_id"`
	PlanCode       string `json:"plan_code"`
	InvoiceID      string `json:"invoice_id"`
}

// ChargeSuccessData is the payload of a charge.success event.
type ChargeSuccessData struct {
	Reference        string           `json:"reference"`
	Amount           int64            `json:"amount"` // Subunits (kobo/cents)
	Currency         string           `json:"currency"`
	PaidAt           time.Time        `json:"paid_at"`
	Customer         PaystackCustomer `json:"customer"`
	Plan             PaystackPlan     `json:"plan"`
	Metadata         ChargeMetadata   `json:"metadata"`
	SubscriptionCode string           `json:"subscription_code"`
}

// ChargeFailedData is the payload of a charge.failed event.
type ChargeFailedData struct {
	Reference string           `json:"reference"`
	Customer  PaystackCustomer `json:"customer"`
	Metadata  ChargeMetadata   `json:"metadata"`
}

// SubscriptionUpdateData is the payload of a subscription.update event.
type SubscriptionUpdateData struct {
	SubscriptionCode string           `json:"subscription_code"`
	Amount           int64            `json:"amount"` // Subunits (kobo/cents)
	NextPaymentDate  *time.Time       `json:"next_payment_date"`
	Plan             PaystackPlan     `json:"plan"`
	Customer         PaystackCustomer `json:"customer"`
}

// SubscriptionDisableData is the payload of a subscription.disable event.
type SubscriptionDisableData struct {
	SubscriptionCode string           `json:"subscription_code"`
	Customer         PaystackCustomer `json:"customer"`
}

// CreatePlanRequest defines the data needed to register a billable plan.
type CreatePlanRequest struct {
	Code             string          `json:"code" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required"`
	PaystackPlanCode string          `json:"paystackPlanCode" binding:"required"`
}

// PlanResponse defines the data returned for a plan.
type PlanResponse struct {
	PlanID           string              `json:"planID"`
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	Amount           decimal.Decimal     `json:"amount"`
	CurrencyCode     string              `json:"currencyCode"`
	Interval         domain.PlanInterval `json:"interval"`
	PaystackPlanCode string              `json:"paystackPlanCode"`
}

// SubscriptionResponse defines the data returned for a subscription.
type SubscriptionResponse struct {
	SubscriptionID        string                    `json:"subscriptionID"`
	OrganizationID        string                    `json:"organizationID"`
	PlanID                string                    `json:"planID"`
	Status                domain.SubscriptionStatus `json:"status"`
	BillingAnniversaryDay int                       `json:"billingAnniversaryDay"`
	CurrentPeriodStart    time.Time                 `json:"currentPeriodStart"`
	CurrentPeriodEnd      time.Time                 `json:"currentPeriodEnd"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	OrganizationID string               `json:"organizationID"`
	SubscriptionID string               `json:"subscriptionID"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyCode   string               `json:"currencyCode"`
	Status         domain.InvoiceStatus `json:"status"`
	PeriodStart    time.Time            `json:"periodStart"`
	PeriodEnd      time.Time            `json:"periodEnd"`
	PaidAt         *time.Time           `json:"paidAt,omitempty"`
}

// ToPlanResponse converts a domain.Plan to its DTO.
func ToPlanResponse(p *domain.Plan) PlanResponse {
	return PlanResponse{
		PlanID:           p.PlanID,
		Code:             p.Code,
		Name:             p.Name,
		Amount:           p.Amount,
		CurrencyCode:     p.CurrencyCode,
		Interval:         p.Interval,
		PaystackPlanCode: p.PaystackPlanCode,
	}
}

// ToSubscriptionResponse converts a domain.Subscription to its DTO.
func ToSubscriptionResponse(s *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:        s.SubscriptionID,
		OrganizationID:        s.OrganizationID,
		PlanID:                s.PlanID,
		Status:                s.Status,
		BillingAnniversaryDay: s.BillingAnniversaryDay,
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
	}
}

// ToInvoiceResponse converts a domain.Invoice to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		OrganizationID: inv.OrganizationID,
		SubscriptionID: inv.SubscriptionID,
		InvoiceNumber:  inv.InvoiceNumber,
		Amount:         inv.Amount,
		CurrencyCode:   inv.CurrencyCode,
		Status:         inv.Status,
		PeriodStart:    inv.PeriodStart,
		PeriodEnd:      inv.PeriodEnd,
		PaidAt:         inv.PaidAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices to DTOs.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
