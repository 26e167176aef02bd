package repositories

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// OrganizationRepository defines persistence operations for organizations and memberships.
type OrganizationRepository interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, organization domain.Organization) error

	// FindOrganizationByID retrieves a specific organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// UpdateOrganization updates an existing organization's details.
	UpdateOrganization(ctx context.Context, organization domain.Organization) error

	// ListOrganizationsByUser retrieves the organizations a user belongs to.
	ListOrganizationsByUser(ctx context.Context, userID string) ([]domain.Organization, error)

	// AddUserToOrganization records a user's membership in an organization.
	AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error

	// FindUserOrganizationRole retrieves a user's membership record for an organization.
	// Returns apperrors.ErrNotFound when the user is not a member.
	FindUserOrganizationRole(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error)

	// ListUsersInOrganization retrieves all memberships of an organization.
	ListUsersInOrganization(ctx context.Context, organizationID string) ([]domain.UserOrganization, error)
}
