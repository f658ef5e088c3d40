package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrSecretMissing = errors.New("razorpay key secret is not configured")

// VerifyPaymentSignature checks the checkout callback signature: an
// HMAC-SHA256 over "orderID|paymentID" hex-encoded with the key secret.
// It fails closed: malformed input yields false, never a panic.
func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) (bool, error) {
	if strings.TrimSpace(keySecret) == "" {
		return false, ErrSecretMissing
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return false, nil
	}

	expected := signPayload(keySecret, orderID+"|"+paymentID)
	return constantTimeEqualHex(expected, signature), nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw request body. The body must be the unparsed bytes as received.
func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) (bool, error) {
	if strings.TrimSpace(webhookSecret) == "" {
		return false, ErrSecretMissing
	}
	if len(body) == 0 || signature == "" {
		return false, nil
	}

	expected := signPayload(webhookSecret, string(body))
	return constantTimeEqualHex(expected, signature), nil
}

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func constantTimeEqualHex(expected, got string) bool {
	expectedRaw, err := hex.DecodeString(expected)
	if err != nil {
		return false
	}
	gotRaw, err := hex.DecodeString(strings.TrimSpace(got))
	if err != nil {
		return false
	}
	return hmac.Equal(expectedRaw, gotRaw)
}
