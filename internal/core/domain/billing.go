package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanInterval is the recurring billing interval of a plan.
type PlanInterval string

const (
	IntervalMonthly PlanInterval = "MONTHLY"
)

// Plan is a billable subscription plan offered to tenant organizations.
type Plan struct {
	PlanID           string          `json:"planID"`
	Code             string          `json:"code"` // Short unique code (e.g., "starter")
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Interval         PlanInterval    `json:"interval"`
	PaystackPlanCode string          `json:"paystackPlanCode"` // Provider-side plan code (PLN_...)
	AuditFields
}

// SubscriptionStatus is the lifecycle state of an organization's subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

// Subscription links an organization to a plan and tracks the current billing
// period. The period window is always derived from BillingAnniversaryDay, never
// from wall-clock "now", so replayed or delayed provider events cannot drift it.
type Subscription struct {
	SubscriptionID           string             `json:"subscriptionID"`
	OrganizationID           string             `json:"organizationID"`
	PlanID                   string             `json:"planID"`
	Status                   SubscriptionStatus `json:"status"`
	PaystackSubscriptionCode string             `json:"paystackSubscriptionCode"` // SUB_...
	PaystackCustomerCode     string             `json:"paystackCustomerCode"`     // CUS_...
	BillingAnniversaryDay    int                `json:"billingAnniversaryDay"`    // 1..28
	CurrentPeriodStart       time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd         time.Time          `json:"currentPeriodEnd"`
	AuditFields
}

// InvoiceStatus is the lifecycle state of a billing invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceOpen  InvoiceStatus = "OPEN"
	InvoicePaid  InvoiceStatus = "PAID"
	InvoiceVoid  InvoiceStatus = "VOID"
)

// Invoice is a charge raised against a subscription for one billing period.
type Invoice struct {
	InvoiceID         string          `json:"invoiceID"`
	OrganizationID    string          `json:"organizationID"`
	SubscriptionID    string          `json:"subscriptionID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode"`
	Status            InvoiceStatus   `json:"status"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	PaystackReference string          `json:"paystackReference"` // Charge reference that settled the invoice
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	AuditFields
}
