package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/google/uuid"
)

// OrganizationService handles business logic related to organizations and memberships.
type OrganizationService struct {
	organizationRepo portsrepo.OrganizationRepository
	currencyRepo     portsrepo.CurrencyRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(or portsrepo.OrganizationRepository, cr portsrepo.CurrencyRepository) portssvc.OrganizationSvcFacade {
	return &OrganizationService{
		organizationRepo: or,
		currencyRepo:     cr,
	}
}

// Ensure OrganizationService implements the portssvc.OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*OrganizationService)(nil)

// CreateOrganization creates a new organization and makes the creator the initial admin.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Validate that the currency exists
	if req.DefaultCurrencyCode != "" {
		_, err := s.currencyRepo.FindCurrencyByCode(ctx, req.DefaultCurrencyCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Invalid default currency code provided", slog.String("currency_code", req.DefaultCurrencyCode))
				return nil, fmt.Errorf("%w: currency code %s not found", apperrors.ErrValidation, req.DefaultCurrencyCode)
			}
			logger.Error("Failed to check currency code existence", slog.String("error", err.Error()), slog.String("currency_code", req.DefaultCurrencyCode))
			return nil, fmt.Errorf("failed to validate currency code: %w", err)
		}
	}

	now := time.Now()
	newOrganizationID := uuid.NewString()

	organization := domain.Organization{
		OrganizationID: newOrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Only set default currency if provided (otherwise will be NULL in DB)
	if req.DefaultCurrencyCode != "" {
		organization.DefaultCurrencyCode = &req.DefaultCurrencyCode
	}

	if err := s.organizationRepo.SaveOrganization(ctx, organization); err != nil {
		logger.Error("Failed to save organization in repository", slog.String("error", err.Error()), slog.String("organization_name", req.Name))
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	// Add the creator as the initial admin
	membership := domain.UserOrganization{
		UserID:         creatorUserID,
		OrganizationID: newOrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}
	if err := s.organizationRepo.AddUserToOrganization(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin to new organization", slog.String("error", err.Error()), slog.String("organization_id", newOrganizationID), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to add creator to organization: %w", err)
	}

	logger.Info("Organization created successfully", slog.String("organization_id", newOrganizationID), slog.String("creator_user_id", creatorUserID))
	return &organization, nil
}

// GetOrganizationByID retrieves an organization, requiring the requester to be a member.
func (s *OrganizationService) GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	organization, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find organization by ID in repository", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	logger.Debug("Organization found by ID", slog.String("organization_id", organizationID))
	return organization, nil
}

// ListUserOrganizations retrieves the list of organizations a given user belongs to.
func (s *OrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	organizations, err := s.organizationRepo.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list organizations for user from repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list organizations for user %s: %w", userID, err)
	}

	if organizations == nil {
		return []domain.Organization{}, nil // Return empty slice, not nil
	}

	logger.Debug("Organizations listed successfully for user", slog.String("user_id", userID), slog.Int("count", len(organizations)))
	return organizations, nil
}

// AddUserToOrganization adds a user to an organization with a specific role.
func (s *OrganizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Only admins can manage membership
	if err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	now := time.Now()
	membership := domain.UserOrganization{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       now,
	}

	if err := s.organizationRepo.AddUserToOrganization(ctx, membership); err != nil {
		logger.Error("Failed to add user to organization in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to add user %s to organization %s: %w", targetUserID, organizationID, err)
	}

	logger.Info("User added to organization successfully", slog.String("target_user_id", targetUserID), slog.String("organization_id", organizationID), slog.String("role", string(role)), slog.String("added_by_user_id", addingUserID))
	return nil
}

// AuthorizeUserAction checks if a user has the required role (or higher) within a specific organization.
// Returns apperrors.ErrNotFound if user/organization doesn't exist or user not member.
// Returns apperrors.ErrForbidden if user is member but lacks the required role.
// Returns nil if authorized.
func (s *OrganizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.organizationRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: User or organization not found, or user not a member", slog.String("user_id", userID), slog.String("organization_id", organizationID))
			// Return NotFound to avoid revealing organization existence if user shouldn't know
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check user organization role in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if !roleSatisfies(membership.Role, requiredRole) {
		logger.Warn("Authorization failed: User lacks required role", slog.String("user_id", userID), slog.String("organization_id", organizationID), slog.String("user_role", string(membership.Role)), slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}

// roleSatisfies reports whether have grants at least the privileges of want.
// ADMIN > MEMBER > READONLY; REMOVED grants nothing.
func roleSatisfies(have, want domain.UserOrganizationRole) bool {
	rank := map[domain.UserOrganizationRole]int{
		domain.RoleReadOnly: 1,
		domain.RoleMember:   2,
		domain.RoleAdmin:    3,
	}
	h, ok := rank[have]
	if !ok {
		return false
	}
	w, ok := rank[want]
	if !ok {
		return false
	}
	return h >= w
}
