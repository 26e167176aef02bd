package utils

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// ComputeWebhookSignature computes the hex-encoded HMAC-SHA512 of body using secret.
// Paystack signs webhook deliveries this way and sends the result in the
// x-paystack-signature header.
func ComputeWebhookSignature(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature compares the provided signature against the HMAC-SHA512
// of body in constant time.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeWebhookSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
