package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan represents a billable plan row.
type Plan struct {
	PlanID           string          `db:"plan_id"`
	Code             string          `db:"code"`
	Name             string          `db:"name"`
	Amount           decimal.Decimal `db:"amount"`
	CurrencyCode     string          `db:"currency_code"`
	Interval         string          `db:"interval"`
	PaystackPlanCode string          `db:"paystack_plan_code"`
	AuditFields
}

// Subscription represents a subscription row.
type Subscription struct {
	SubscriptionID           string    `db:"subscription_id"`
	OrganizationID           string    `db:"organization_id"`
	PlanID                   string    `db:"plan_id"`
	Status                   string    `db:"status"`
	PaystackSubscriptionCode string    `db:"paystack_subscription_code"`
	PaystackCustomerCode     string    `db:"paystack_customer_code"`
	BillingAnniversaryDay    int       `db:"billing_anniversary_day"`
	CurrentPeriodStart       time.Time `db:"current_period_start"`
	CurrentPeriodEnd         time.Time `db:"current_period_end"`
	AuditFields
}

// Invoice represents an invoice row.
type Invoice struct {
	InvoiceID         string          `db:"invoice_id"`
	OrganizationID    string          `db:"organization_id"`
	SubscriptionID    string          `db:"subscription_id"`
	InvoiceNumber     string          `db:"invoice_number"`
	Amount            decimal.Decimal `db:"amount"`
	CurrencyCode      string          `db:"currency_code"`
	Status            string          `db:"status"`
	PeriodStart       time.Time       `db:"period_start"`
	PeriodEnd         time.Time       `db:"period_end"`
	PaystackReference string          `db:"paystack_reference"`
	PaidAt            *time.Time      `db:"paid_at"`
	AuditFields
}
