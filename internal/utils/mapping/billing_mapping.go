package mapping

import (
	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/models"
)

// ToModelPlan converts a domain Plan to a model Plan
func ToModelPlan(d domain.Plan) models.Plan {
	return models.Plan{
		PlanID:           d.PlanID,
		Code:             d.Code,
		Name:             d.Name,
		Amount:           d.Amount,
		CurrencyCode:     d.CurrencyCode,
		Interval:         string(d.Interval),
		PaystackPlanCode: d.PaystackPlanCode,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPlan converts a model Plan to a domain Plan
func ToDomainPlan(m models.Plan) domain.Plan {
	return domain.Plan{
		PlanID:           m.PlanID,
		Code:             m.Code,
		Name:             m.Name,
		Amount:           m.Amount,
		CurrencyCode:     m.CurrencyCode,
		Interval:         domain.PlanInterval(m.Interval),
		PaystackPlanCode: m.PaystackPlanCode,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	return models.Subscription{
		SubscriptionID:           d.SubscriptionID,
		OrganizationID:           d.OrganizationID,
		PlanID:                   d.PlanID,
		Status:                   string(d.Status),
		PaystackSubscriptionCode: d.PaystackSubscriptionCode,
		PaystackCustomerCode:     d.PaystackCustomerCode,
		BillingAnniversaryDay:    d.BillingAnniversaryDay,
		CurrentPeriodStart:       d.CurrentPeriodStart,
		CurrentPeriodEnd:         d.CurrentPeriodEnd,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID:           m.SubscriptionID,
		OrganizationID:           m.OrganizationID,
		PlanID:                   m.PlanID,
		Status:                   domain.SubscriptionStatus(m.Status),
		PaystackSubscriptionCode: m.PaystackSubscriptionCode,
		PaystackCustomerCode:     m.PaystackCustomerCode,
		BillingAnniversaryDay:    m.BillingAnniversaryDay,
		CurrentPeriodStart:       m.CurrentPeriodStart,
		CurrentPeriodEnd:         m.CurrentPeriodEnd,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:         d.InvoiceID,
		OrganizationID:    d.OrganizationID,
		SubscriptionID:    d.SubscriptionID,
		InvoiceNumber:     d.InvoiceNumber,
		Amount:            d.Amount,
		CurrencyCode:      d.CurrencyCode,
		Status:            string(d.Status),
		PeriodStart:       d.PeriodStart,
		PeriodEnd:         d.PeriodEnd,
		PaystackReference: d.PaystackReference,
		PaidAt:            d.PaidAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:         m.InvoiceID,
		OrganizationID:    m.OrganizationID,
		SubscriptionID:    m.SubscriptionID,
		InvoiceNumber:     m.InvoiceNumber,
		Amount:            m.Amount,
		CurrencyCode:      m.CurrencyCode,
		Status:            domain.InvoiceStatus(m.Status),
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		PaystackReference: m.PaystackReference,
		PaidAt:            m.PaidAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
