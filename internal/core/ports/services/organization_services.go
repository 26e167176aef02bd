package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// OrganizationAuthorizerSvc checks a user's role within an organization.
// Nearly every ledger and billing operation consults this before touching data.
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction returns nil if userID holds requiredRole (or higher) in
	// the organization, apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error
}

// OrganizationSvcFacade exposes organization and membership management.
type OrganizationSvcFacade interface {
	OrganizationAuthorizerSvc

	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
	GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error)
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
	AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error
}
