package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 64, "32 random bytes hex-encode to 64 characters")

	other, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other, "two generated strings should differ")
}

func TestGenerateSecureRandomStringRejectsNonPositiveLength(t *testing.T) {
	_, err := GenerateSecureRandomString(0)
	assert.Error(t, err)

	_, err = GenerateSecureRandomString(-1)
	assert.Error(t, err)
}
