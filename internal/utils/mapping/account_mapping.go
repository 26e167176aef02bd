package mapping

import (
	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		OrganizationID:      d.OrganizationID,
		Code:                d.Code,
		Name:                d.Name,
		AccountType:         models.AccountType(d.AccountType),
		CurrencyCode:        d.CurrencyCode,
		Description:         d.Description,
		IsActive:            d.IsActive,
		IsSystem:            d.IsSystem,
		AllowManualJournals: d.AllowManualJournals,
		AuditFields:         ToModelAuditFields(d.AuditFields),
		Balance:             d.Balance,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		OrganizationID:      m.OrganizationID,
		Code:                m.Code,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		CurrencyCode:        m.CurrencyCode,
		Description:         m.Description,
		IsActive:            m.IsActive,
		IsSystem:            m.IsSystem,
		AllowManualJournals: m.AllowManualJournals,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
		Balance:             m.Balance,
	}
}
