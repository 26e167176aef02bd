package mapping

import (
	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                d.UserID,
		Username:              d.Username,
		Name:                  d.Name,
		Email:                 d.Email,
		PasswordHash:          d.PasswordHash,
		AuditFields:           ToModelAuditFields(d.AuditFields),
		RefreshTokenHash:      d.RefreshTokenHash,
		RefreshTokenExpiresAt: d.RefreshTokenExpiresAt,
		DeletedAt:             d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                m.UserID,
		Username:              m.Username,
		Name:                  m.Name,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
		RefreshTokenHash:      m.RefreshTokenHash,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		DeletedAt:             m.DeletedAt,
	}
}
