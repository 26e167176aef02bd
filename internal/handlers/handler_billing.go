package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/quintalabs/bizcore/internal/platform/config"
	"github.com/quintalabs/bizcore/internal/utils"
	"github.com/gin-gonic/gin"
)

// billingHandler handles Paystack webhooks, plans and per-organization billing reads.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
	cfg            *config.Config
}

// newBillingHandler creates a new billingHandler.
func newBillingHandler(bs portssvc.BillingSvcFacade, cfg *config.Config) *billingHandler {
	return &billingHandler{
		billingService: bs,
		cfg:            cfg,
	}
}

// RegisterBillingWebhookRoute registers the public Paystack webhook endpoint.
// It must stay outside the JWT middleware; authenticity comes from the HMAC
// signature header, not a bearer token.
func RegisterBillingWebhookRoute(r *gin.Engine, cfg *config.Config, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService, cfg)
	r.POST("/api/v1/webhooks/paystack", h.paystackWebhook)
}

// registerPlanRoutes registers plan management routes on the authenticated v1 group.
func registerPlanRoutes(rg *gin.RouterGroup, cfg *config.Config, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService, cfg)

	plans := rg.Group("/plans")
	{
		plans.POST("", h.createPlan)
		plans.GET("", h.listPlans)
		plans.GET("/:plan_id", h.getPlan)
	}
}

// registerOrganizationBillingRoutes registers billing read routes nested under an organization.
func registerOrganizationBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService, nil)

	billing := rg.Group("/billing")
	{
		billing.GET("/subscription", h.getSubscription)
		billing.GET("/invoices", h.listInvoices)
	}
}

// paystackWebhook godoc
// @Summary Paystack webhook receiver
// @Description Verifies the x-paystack-signature HMAC over the raw body, then dispatches the event. Unknown events are acknowledged with 200 so Paystack stops retrying them.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   event body dto.PaystackEvent true "Paystack event envelope"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Malformed payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid signature"
// @Failure 500 {object} ErrorResponse
// @Router /webhooks/paystack [post]
func (h *billingHandler) paystackWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"})
		return
	}

	// Signature check happens before any parsing of the payload.
	signature := c.GetHeader("x-paystack-signature")
	if !utils.VerifyWebhookSignature(h.cfg.PaystackSecretKey, body, signature) {
		logger.Warn("Rejected webhook with invalid signature", slog.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid signature"})
		return
	}

	var event dto.PaystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("Failed to parse webhook payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid event payload"})
		return
	}

	logger = logger.With(slog.String("event", event.Event))
	logger.Info("Received Paystack webhook event")

	if err := h.billingService.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		// Non-2xx makes Paystack retry the delivery later.
		logger.Error("Failed to process webhook event", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createPlan godoc
// @Summary Register a billable plan
// @Description Registers a plan that maps a local code to a Paystack plan code.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   plan body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Plan code already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /plans [post]
func (h *billingHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	plan, err := h.billingService.CreatePlan(c.Request.Context(), req, actingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create plan")
		return
	}

	logger.Info("Plan created successfully", slog.String("plan_id", plan.PlanID), slog.String("plan_code", plan.Code))
	c.JSON(http.StatusCreated, dto.ToPlanResponse(plan))
}

// getPlan godoc
// @Summary Get a plan by ID
// @Tags billing
// @Produce  json
// @Param   plan_id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /plans/{plan_id} [get]
func (h *billingHandler) getPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("plan_id")

	plan, err := h.billingService.GetPlanByID(c.Request.Context(), planID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanResponse(plan))
}

// listPlans godoc
// @Summary List plans
// @Tags billing
// @Produce  json
// @Success 200 {array} dto.PlanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /plans [get]
func (h *billingHandler) listPlans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	plans, err := h.billingService.ListPlans(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list plans")
		return
	}

	responses := make([]dto.PlanResponse, len(plans))
	for i := range plans {
		responses[i] = dto.ToPlanResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getSubscription godoc
// @Summary Get the organization's subscription
// @Tags billing
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No subscription for this organization"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/billing/subscription [get]
func (h *billingHandler) getSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	subscription, err := h.billingService.GetSubscriptionByOrganization(c.Request.Context(), organizationID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(subscription))
}

// listInvoices godoc
// @Summary List the organization's invoices
// @Description Lists invoices newest first.
// @Tags billing
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.InvoiceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/billing/invoices [get]
func (h *billingHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	invoices, err := h.billingService.ListInvoicesByOrganization(c.Request.Context(), organizationID, requestingUserID, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponses(invoices))
}
