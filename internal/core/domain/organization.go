package domain

import "time"

// Organization represents an isolated tenant containing accounts, journals,
// fiscal periods and a billing subscription.
type Organization struct {
	OrganizationID      string  `json:"organizationID"`      // Primary Key (e.g., UUID)
	Name                string  `json:"name"`                // User-defined name for the organization
	Description         string  `json:"description"`         // Optional description
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // Default currency code (e.g., "USD")
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// UserOrganizationRole defines the possible roles a user can have within an organization.
type UserOrganizationRole string

const (
	RoleAdmin    UserOrganizationRole = "ADMIN"
	RoleMember   UserOrganizationRole = "MEMBER"
	RoleReadOnly UserOrganizationRole = "READONLY"
	RoleRemoved  UserOrganizationRole = "REMOVED" // For users who have been removed from the organization
)

// UserOrganization represents the membership of a User in an Organization.
type UserOrganization struct {
	UserID         string               `json:"userID"`
	UserName       string               `json:"userName"`
	OrganizationID string               `json:"organizationID"`
	Role           UserOrganizationRole `json:"role"`
	JoinedAt       time.Time            `json:"joinedAt"`
}
