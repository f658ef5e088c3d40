package dto

// Field names follow the checkout widget's callback payload verbatim;
// courseSlug and email ride along from the frontend enrollment form.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	CourseSlug        string `json:"courseSlug,omitempty"`
	Email             string `json:"email,omitempty"`
}

type VerifyPaymentResponse struct {
	OK bool `json:"ok"`
}

type CreateOrderRequest struct {
	CourseSlug string `json:"courseSlug"`
}

type CreateOrderResponse struct {
	OK       bool   `json:"ok"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
