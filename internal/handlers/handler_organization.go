package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{
		organizationService: os,
	}
}

// registerOrganizationRoutes registers routes for organizations and their
// members, and nests the per-organization ledger, period, reporting and
// billing routes under /organizations/:organization_id.
func registerOrganizationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newOrganizationHandler(services.Organization)

	organizationsTopLevel := rg.Group("/organizations")
	{
		organizationsTopLevel.POST("", h.createOrganization)
		organizationsTopLevel.GET("", h.listUserOrganizations)
	}

	organizationSpecific := rg.Group("/organizations/:organization_id")
	{
		organizationSpecific.GET("", h.getOrganization)

		organizationUsers := organizationSpecific.Group("/users")
		{
			organizationUsers.POST("", h.addUserToOrganization)
		}

		registerAccountRoutes(organizationSpecific, services.Account)
		registerJournalRoutes(organizationSpecific, services.Journal)
		registerFiscalPeriodRoutes(organizationSpecific, services.FiscalPeriod)
		registerReportingRoutes(organizationSpecific, services.Reporting)
		registerOrganizationBillingRoutes(organizationSpecific, services.Billing)
	}
}

// createOrganization godoc
// @Summary Create a new organization
// @Description Creates a new organization and assigns the creator as admin.
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create organization", slog.String("organization_name", req.Name))

	organization, err := h.organizationService.CreateOrganization(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create organization")
		return
	}

	logger.Info("Organization created successfully", slog.String("organization_id", organization.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(organization))
}

// getOrganization godoc
// @Summary Get an organization by ID
// @Description Retrieves details of an organization the user belongs to.
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Organization not found or not a member"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	organization, err := h.organizationService.GetOrganizationByID(c.Request.Context(), organizationID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(organization))
}

// listUserOrganizations godoc
// @Summary List organizations for current user
// @Description Retrieves the organizations the authenticated user belongs to.
// @Tags organizations
// @Produce  json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listUserOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	organizations, err := h.organizationService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.ListOrganizationsResponse{Organizations: dto.ToOrganizationResponses(organizations)})
}

// addUserToOrganization godoc
// @Summary Add a user to an organization
// @Description Adds a user to an organization with a given role (requires admin permission).
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   user_details body dto.AddUserToOrganizationRequest true "User ID and Role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not admin"
// @Failure 404 {object} ErrorResponse "Organization or user not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [post]
func (h *organizationHandler) addUserToOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.AddUserToOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("adding_user_id", addingUserID), slog.String("organization_id", organizationID), slog.String("target_user_id", req.UserID))
	logger.Info("Received request to add user to organization", slog.String("role", string(req.Role)))

	err := h.organizationService.AddUserToOrganization(c.Request.Context(), addingUserID, req.UserID, organizationID, req.Role)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add user to organization")
		return
	}

	c.Status(http.StatusNoContent)
}
