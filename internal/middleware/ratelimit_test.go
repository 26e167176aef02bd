package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quintalabs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func rateLimitedRouter(rate limiter.Rate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ipLimiter := limiter.New(memory.NewStore(), rate)
	router := gin.New()
	router.POST("/login", middleware.RateLimit(ipLimiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doLogin(router *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	router := rateLimitedRouter(limiter.Rate{Period: time.Minute, Limit: 2})

	assert.Equal(t, http.StatusOK, doLogin(router, "203.0.113.7:51000"), "first request should pass")
	assert.Equal(t, http.StatusOK, doLogin(router, "203.0.113.7:51000"), "second request should pass")
	assert.Equal(t, http.StatusTooManyRequests, doLogin(router, "203.0.113.7:51000"), "third request should be limited")
}

func TestRateLimitIsPerClientIP(t *testing.T) {
	router := rateLimitedRouter(limiter.Rate{Period: time.Minute, Limit: 1})

	assert.Equal(t, http.StatusOK, doLogin(router, "203.0.113.7:51000"))
	assert.Equal(t, http.StatusTooManyRequests, doLogin(router, "203.0.113.7:51000"), "same client should be limited")
	assert.Equal(t, http.StatusOK, doLogin(router, "198.51.100.9:40200"), "a different client should not be limited")
}
