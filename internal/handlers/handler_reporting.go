package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for accounting reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers reporting routes nested under an organization.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
	}
}

// parseAsOf accepts either an RFC3339 timestamp or a plain date.
func parseAsOf(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Returns per-account debit and credit totals over posted journals up to the given date. Defaults to now when asOf is omitted.
// @Tags reports
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   asOf query string false "Report cutoff, RFC3339 timestamp or YYYY-MM-DD"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid asOf value"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := parseAsOf(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOf value, expected RFC3339 or YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), organizationID, requestingUserID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, report)
}
