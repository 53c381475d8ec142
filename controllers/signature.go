package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyGatewaySignature recomputes the razorpay checkout signature,
// HMAC-SHA256 over "<order_id>|<payment_id>" with the key secret, and
// compares it in constant time against the one the client submitted.
func VerifyGatewaySignature(orderID, paymentID, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
