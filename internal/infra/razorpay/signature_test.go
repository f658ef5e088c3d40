package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func signFor(t *testing.T, secret, payload string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "rzp_test_secret"
	valid := signFor(t, secret, "order_1|pay_1")

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{"valid", "order_1", "pay_1", valid, true},
		{"tampered signature", "order_1", "pay_1", signFor(t, secret, "order_1|pay_2"), false},
		{"wrong secret", "order_1", "pay_1", signFor(t, "other", "order_1|pay_1"), false},
		{"empty order id", "", "pay_1", valid, false},
		{"empty payment id", "order_1", "", valid, false},
		{"empty signature", "order_1", "pay_1", "", false},
		{"garbage signature", "order_1", "pay_1", "not-hex!!", false},
		{"truncated signature", "order_1", "pay_1", valid[:16], false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := VerifyPaymentSignature(secret, tc.orderID, tc.paymentID, tc.signature)
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestVerifyPaymentSignatureMissingSecret(t *testing.T) {
	_, err := VerifyPaymentSignature("", "order_1", "pay_1", "sig")
	if !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "whsec"
	body := []byte(`{"event":"payment.captured"}`)
	valid := signFor(t, secret, string(body))

	ok, err := VerifyWebhookSignature(secret, body, valid)
	if err != nil || !ok {
		t.Fatalf("valid webhook signature rejected: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyWebhookSignature(secret, append(body, ' '), valid)
	if err != nil {
		t.Fatalf("verify modified body: %v", err)
	}
	if ok {
		t.Fatalf("modified body must not verify")
	}

	ok, err = VerifyWebhookSignature(secret, nil, valid)
	if err != nil || ok {
		t.Fatalf("empty body must not verify: ok=%v err=%v", ok, err)
	}
}
