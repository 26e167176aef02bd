package dto

import (
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to create a new organization.
type CreateOrganizationRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
}

// AddUserToOrganizationRequest defines the data needed to add a member.
type AddUserToOrganizationRequest struct {
	UserID string                      `json:"userID" binding:"required"`
	Role   domain.UserOrganizationRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID      string    `json:"organizationID"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	DefaultCurrencyCode *string   `json:"defaultCurrencyCode,omitempty"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	CreatedBy           string    `json:"createdBy"`
}

// ListOrganizationsResponse wraps the organizations a user belongs to.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToOrganizationResponse converts a domain.Organization to its DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:      o.OrganizationID,
		Name:                o.Name,
		Description:         o.Description,
		DefaultCurrencyCode: o.DefaultCurrencyCode,
		IsActive:            o.IsActive,
		CreatedAt:           o.CreatedAt,
		CreatedBy:           o.CreatedBy,
	}
}

// ToOrganizationResponses converts a slice of domain organizations to DTOs.
func ToOrganizationResponses(orgs []domain.Organization) []OrganizationResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = ToOrganizationResponse(&orgs[i])
	}
	return responses
}
