package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosthogSkipsInfrastructurePaths(t *testing.T) {
	assert.True(t, pathsToSkip["/health"], "health checks should not be tracked")
	assert.True(t, pathsToSkip["/api/v1/webhooks/paystack"], "webhook deliveries should not be tracked")
}
