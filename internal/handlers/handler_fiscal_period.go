package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	fiscalPeriodService portssvc.FiscalPeriodSvcFacade
}

// newFiscalPeriodHandler creates a new fiscalPeriodHandler.
func newFiscalPeriodHandler(fs portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{
		fiscalPeriodService: fs,
	}
}

// registerFiscalPeriodRoutes registers fiscal period routes nested under an organization.
func registerFiscalPeriodRoutes(rg *gin.RouterGroup, fiscalPeriodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(fiscalPeriodService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createFiscalPeriod)
		periods.GET("", h.listFiscalPeriods)
		periods.GET("/:period_id", h.getFiscalPeriod)
		periods.PUT("/:period_id/status", h.updatePeriodStatus)
	}
}

// createFiscalPeriod godoc
// @Summary Create a fiscal period
// @Description Creates a new fiscal period for the organization. Periods may not overlap existing ones.
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   period body dto.CreateFiscalPeriodRequest true "Period details"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period overlaps an existing one"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/fiscal-periods [post]
func (h *fiscalPeriodHandler) createFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID), slog.String("organization_id", organizationID))
	logger.Info("Received request to create fiscal period", slog.String("period_name", req.Name))

	period, err := h.fiscalPeriodService.CreateFiscalPeriod(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create fiscal period")
		return
	}

	logger.Info("Fiscal period created successfully", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// getFiscalPeriod godoc
// @Summary Get a fiscal period by ID
// @Tags fiscal-periods
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   period_id path string true "Fiscal Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/fiscal-periods/{period_id} [get]
func (h *fiscalPeriodHandler) getFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	periodID := c.Param("period_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	period, err := h.fiscalPeriodService.GetFiscalPeriodByID(c.Request.Context(), organizationID, periodID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve fiscal period")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// listFiscalPeriods godoc
// @Summary List fiscal periods
// @Description Lists the organization's fiscal periods ordered by start date.
// @Tags fiscal-periods
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.ListFiscalPeriodsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/fiscal-periods [get]
func (h *fiscalPeriodHandler) listFiscalPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	periods, err := h.fiscalPeriodService.ListFiscalPeriods(c.Request.Context(), organizationID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list fiscal periods")
		return
	}

	c.JSON(http.StatusOK, dto.ListFiscalPeriodsResponse{Periods: dto.ToFiscalPeriodResponses(periods)})
}

// updatePeriodStatus godoc
// @Summary Change a fiscal period's status
// @Description Transitions a period between OPEN, CLOSED and LOCKED. LOCKED is terminal; reopening a closed period requires ADMIN.
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   period_id path string true "Fiscal Period ID"
// @Param   status body dto.UpdatePeriodStatusRequest true "Target status"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Disallowed transition"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/fiscal-periods/{period_id}/status [put]
func (h *fiscalPeriodHandler) updatePeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	periodID := c.Param("period_id")

	var req dto.UpdatePeriodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePeriodStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("period_id", periodID),
		slog.String("acting_user_id", actingUserID),
		slog.String("target_status", string(req.Status)))
	logger.Info("Received request to update fiscal period status")

	period, err := h.fiscalPeriodService.UpdatePeriodStatus(c.Request.Context(), organizationID, periodID, req, actingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update fiscal period status")
		return
	}

	logger.Info("Fiscal period status updated successfully")
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}
