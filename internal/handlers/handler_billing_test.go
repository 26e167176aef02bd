package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quintalabs/bizcore/internal/core/domain"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/quintalabs/bizcore/internal/handlers"
	"github.com/quintalabs/bizcore/internal/platform/config"
	"github.com/quintalabs/bizcore/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BillingService ---
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) HandleWebhookEvent(ctx context.Context, event dto.PaystackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockBillingService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest, actingUserID string) (*domain.Plan, error) {
	args := m.Called(ctx, req, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockBillingService) GetPlanByID(ctx context.Context, planID string) (*domain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockBillingService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plan), args.Error(1)
}

func (m *MockBillingService) GetSubscriptionByOrganization(ctx context.Context, organizationID string, requestingUserID string) (*domain.Subscription, error) {
	args := m.Called(ctx, organizationID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockBillingService) ListInvoicesByOrganization(ctx context.Context, organizationID string, requestingUserID string, limit int, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, organizationID, requestingUserID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BillingSvcFacade = (*MockBillingService)(nil)

// --- Test Suite ---
type BillingWebhookTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBillingService *MockBillingService
	webhookSecret      string
}

func (suite *BillingWebhookTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.webhookSecret = "sk_test_webhook_secret"
	suite.mockBillingService = new(MockBillingService)

	cfg := &config.Config{PaystackSecretKey: suite.webhookSecret}
	handlers.RegisterBillingWebhookRoute(suite.router, cfg, suite.mockBillingService)
}

// postWebhook delivers body to the webhook endpoint, signing it with secret.
func (suite *BillingWebhookTestSuite) postWebhook(body []byte, secret string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("x-paystack-signature", utils.ComputeWebhookSignature(secret, body))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *BillingWebhookTestSuite) TestWebhook_ValidSignatureDispatchesEvent() {
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_001"}}`)

	suite.mockBillingService.On("HandleWebhookEvent", mock.Anything, mock.MatchedBy(func(event dto.PaystackEvent) bool {
		return event.Event == dto.EventChargeSuccess
	})).Return(nil).Once()

	w := suite.postWebhook(body, suite.webhookSecret)

	suite.Equal(http.StatusOK, w.Code)
	var response map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("ok", response["status"])
	suite.mockBillingService.AssertExpectations(suite.T())
}

func (suite *BillingWebhookTestSuite) TestWebhook_WrongSecretRejected() {
	body := []byte(`{"event":"charge.success","data":{}}`)

	w := suite.postWebhook(body, "some_other_secret")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func (suite *BillingWebhookTestSuite) TestWebhook_MissingSignatureRejected() {
	body := []byte(`{"event":"charge.success","data":{}}`)

	w := suite.postWebhook(body, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func (suite *BillingWebhookTestSuite) TestWebhook_TamperedBodyRejected() {
	original := []byte(`{"event":"charge.success","data":{"reference":"ref_001"}}`)
	tampered := []byte(`{"event":"charge.success","data":{"reference":"ref_EVIL"}}`)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(tampered))
	req.Header.Set("x-paystack-signature", utils.ComputeWebhookSignature(suite.webhookSecret, original))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func (suite *BillingWebhookTestSuite) TestWebhook_MalformedPayloadAfterValidSignature() {
	body := []byte(`this is not json`)

	w := suite.postWebhook(body, suite.webhookSecret)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBillingService.AssertNotCalled(suite.T(), "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func (suite *BillingWebhookTestSuite) TestWebhook_ServiceErrorTriggersRetry() {
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_002"}}`)

	suite.mockBillingService.On("HandleWebhookEvent", mock.Anything, mock.Anything).
		Return(errors.New("database unavailable")).Once()

	w := suite.postWebhook(body, suite.webhookSecret)

	// Paystack retries on non-2xx, so transient failures must not be acknowledged.
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockBillingService.AssertExpectations(suite.T())
}

func (suite *BillingWebhookTestSuite) TestWebhook_UnknownEventAcknowledged() {
	body := []byte(`{"event":"transfer.success","data":{}}`)

	suite.mockBillingService.On("HandleWebhookEvent", mock.Anything, mock.MatchedBy(func(event dto.PaystackEvent) bool {
		return event.Event == "transfer.success"
	})).Return(nil).Once()

	w := suite.postWebhook(body, suite.webhookSecret)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockBillingService.AssertExpectations(suite.T())
}

func TestBillingWebhookTestSuite(t *testing.T) {
	suite.Run(t, new(BillingWebhookTestSuite))
}
