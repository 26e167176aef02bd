package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers journal routes nested under an organization.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journal_id", h.getJournal)
		journals.PUT("/:journal_id", h.updateJournal)
		journals.DELETE("/:journal_id", h.deleteJournal)
		journals.POST("/:journal_id/post", h.postJournal)
		journals.POST("/:journal_id/reverse", h.reverseJournal)
	}

	rg.GET("/accounts/:account_id/lines", h.listLinesByAccount)
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Creates a new balanced journal entry in DRAFT status. The transaction date must fall inside an OPEN fiscal period.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Unbalanced lines or closed period"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID), slog.String("organization_id", organizationID))
	logger.Info("Received request to create journal", slog.Int("line_count", len(req.Lines)))

	journal, err := h.journalService.CreateJournal(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created successfully",
		slog.String("journal_id", journal.JournalID),
		slog.Int64("journal_number", journal.JournalNumber))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal by ID
// @Description Retrieves a journal entry with its lines.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journal_id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	journalID := c.Param("journal_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), organizationID, journalID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Lists journals for the organization, newest first, with token pagination. Voided journals are hidden unless includeVoided is set.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   includeVoided query bool false "Include VOIDED journals"
// @Param   includeLines query bool false "Include journal lines in each entry"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), organizationID, requestingUserID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Updates a journal still in DRAFT status. Supplying lines replaces the draft's lines wholesale.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal_id path string true "Journal ID"
// @Param   journal body dto.UpdateJournalRequest true "Fields to update"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Journal is not in draft status"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journal_id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	journalID := c.Param("journal_id")

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), organizationID, journalID, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// deleteJournal godoc
// @Summary Delete a draft journal
// @Description Deletes a journal that has never been posted. Posted or voided journals cannot be deleted.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal_id path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Journal is not in draft status"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journal_id} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	journalID := c.Param("journal_id")

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("journal_id", journalID), slog.String("acting_user_id", actingUserID))
	logger.Info("Received request to delete journal")

	if err := h.journalService.DeleteJournal(c.Request.Context(), organizationID, journalID, actingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal")
		return
	}

	logger.Info("Journal deleted successfully")
	c.Status(http.StatusNoContent)
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Transitions a DRAFT journal to POSTED and applies its lines to account balances. Posting is irreversible; use reverse to undo.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Transaction date falls in a closed period"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Journal already posted"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journal_id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	journalID := c.Param("journal_id")

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("journal_id", journalID), slog.String("acting_user_id", actingUserID))
	logger.Info("Received request to post journal")

	journal, err := h.journalService.PostJournal(c.Request.Context(), organizationID, journalID, actingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted successfully", slog.Int64("journal_number", journal.JournalNumber))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and posts a counter-journal that negates a POSTED journal, then marks the original VOIDED. The reversal dates to the original's transaction date when that period is still open, otherwise to today.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal_id path string true "Journal ID of the journal to reverse"
// @Success 201 {object} dto.JournalResponse "The reversing journal"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Journal is not posted or is itself a reversal"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journal_id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	journalID := c.Param("journal_id")

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("original_journal_id", journalID), slog.String("acting_user_id", actingUserID))
	logger.Info("Received request to reverse journal")

	reversal, err := h.journalService.ReverseJournal(c.Request.Context(), organizationID, journalID, actingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed successfully", slog.String("reversing_journal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// listLinesByAccount godoc
// @Summary List journal lines for an account
// @Description Lists the posted journal lines hitting a specific account, newest transaction first, with token pagination.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   account_id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListJournalLinesResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/accounts/{account_id}/lines [get]
func (h *journalHandler) listLinesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	accountID := c.Param("account_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListJournalLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListLinesByAccount(c.Request.Context(), organizationID, accountID, requestingUserID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal lines")
		return
	}

	c.JSON(http.StatusOK, resp)
}
