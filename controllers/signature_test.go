package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyGatewaySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"
	good := signPayload(orderID, paymentID, secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", orderID, paymentID, good, secret, true},
		{"wrong secret", orderID, paymentID, good, "other_secret", false},
		{"tampered order", "order_ABC124", paymentID, good, secret, false},
		{"tampered payment", orderID, "pay_XYZ790", good, secret, false},
		{"empty signature", orderID, paymentID, "", secret, false},
		{"garbage signature", orderID, paymentID, "not-hex", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyGatewaySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret)
			if got != tt.want {
				t.Errorf("VerifyGatewaySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}
