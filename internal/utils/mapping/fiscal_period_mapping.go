package mapping

import (
	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/models"
)

// ToModelFiscalPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:       d.PeriodID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Status:         models.FiscalPeriodStatus(d.Status),
		IsYearEnd:      d.IsYearEnd,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:       m.PeriodID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Status:         domain.FiscalPeriodStatus(m.Status),
		IsYearEnd:      m.IsYearEnd,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
