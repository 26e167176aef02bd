package models

import "time"

// Organization represents a tenant organization row.
type Organization struct {
	OrganizationID      string  `db:"organization_id"`
	Name                string  `db:"name"`
	Description         string  `db:"description"`
	DefaultCurrencyCode *string `db:"default_currency_code"`
	IsActive            bool    `db:"is_active"`
	JournalSeq          int64   `db:"journal_seq"` // Last assigned journal number
	AuditFields
}

// UserOrganizationRole defines the possible roles within an organization.
type UserOrganizationRole string

const (
	RoleAdmin    UserOrganizationRole = "ADMIN"
	RoleMember   UserOrganizationRole = "MEMBER"
	RoleReadOnly UserOrganizationRole = "READONLY"
	RoleRemoved  UserOrganizationRole = "REMOVED"
)

// UserOrganization represents a membership row.
type UserOrganization struct {
	UserID         string               `db:"user_id"`
	OrganizationID string               `db:"organization_id"`
	Role           UserOrganizationRole `db:"role"`
	JoinedAt       time.Time            `db:"joined_at"`
}
