package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/edudubai/platform/backend/internal/pkg/validate"
	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
	paymentsvc "github.com/edudubai/platform/backend/internal/services/payments"
	"github.com/edudubai/platform/backend/internal/transport/http/dto"
	httperrors "github.com/edudubai/platform/backend/internal/transport/http/errors"
)

const maxWebhookBody = 1 << 20

type PaymentsHandler struct {
	payments *paymentsvc.Service
}

func NewPaymentsHandler(payments *paymentsvc.Service) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Verify confirms a checkout callback. The signature check runs before
// anything looks at the session, so a forged callback is rejected as a
// bad signature even when the caller is anonymous.
func (h *PaymentsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternalError(w)
		return
	}

	var req dto.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, []string{"body must be valid JSON"})
		return
	}

	if details := validateVerifyRequest(req); len(details) > 0 {
		writeInvalidRequest(w, details)
		return
	}

	in := paymentsvc.VerifyInput{
		OrderID:    req.RazorpayOrderID,
		PaymentID:  req.RazorpayPaymentID,
		Signature:  req.RazorpaySignature,
		CourseSlug: req.CourseSlug,
		Email:      req.Email,
	}
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		in.UserID = identity.UserID
		in.IdentityEmail = identity.Email
	}

	if _, err := h.payments.VerifyPayment(r.Context(), in); err != nil {
		writeVerifyError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.VerifyPaymentResponse{OK: true})
}

func (h *PaymentsHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternalError(w)
		return
	}

	var req dto.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, []string{"body must be valid JSON"})
		return
	}

	res, err := h.payments.CreateOrder(r.Context(), paymentsvc.CreateOrderInput{
		CourseSlug: req.CourseSlug,
	})
	if err != nil {
		switch {
		case errors.Is(err, paymentsvc.ErrSlugRequired):
			httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Error: "Course slug is required"})
		case errors.Is(err, paymentsvc.ErrCourseNotFound):
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Error: "Course not found"})
		default:
			writeInternalError(w)
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CreateOrderResponse{
		OK:       true,
		OrderID:  res.OrderID,
		Amount:   res.Amount,
		Currency: res.Currency,
		KeyID:    res.KeyID,
	})
}

// Webhook accepts provider event deliveries. The raw body is needed for
// the signature check, so this endpoint never goes through decodeJSON.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternalError(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeInvalidRequest(w, []string{"unable to read request body"})
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.payments.HandleWebhook(r.Context(), body, signature); err != nil {
		writeVerifyError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

func validateVerifyRequest(req dto.VerifyPaymentRequest) []string {
	var details []string
	if !validate.Required(req.RazorpayOrderID) {
		details = append(details, "razorpay_order_id is required")
	}
	if !validate.Required(req.RazorpayPaymentID) {
		details = append(details, "razorpay_payment_id is required")
	}
	if !validate.Required(req.RazorpaySignature) {
		details = append(details, "razorpay_signature is required")
	}
	if validate.Required(req.Email) && !validate.Email(req.Email) {
		details = append(details, "email must be a valid address")
	}
	return details
}

func writeVerifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, paymentsvc.ErrValidation):
		writeInvalidRequest(w, nil)
	case errors.Is(err, paymentsvc.ErrSignatureCheck):
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Error:   "Signature verification failed",
			Message: "payment signature could not be verified",
		})
	case errors.Is(err, paymentsvc.ErrInvalidSignature):
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Error: "Invalid payment signature"})
	case errors.Is(err, paymentsvc.ErrUnauthenticated):
		httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
			Error:   "Authentication required",
			Message: "sign in to complete your enrollment",
		})
	case errors.Is(err, paymentsvc.ErrSlugRequired):
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Error: "Course slug is required"})
	case errors.Is(err, paymentsvc.ErrCourseNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Error: "Course not found"})
	default:
		writeInternalError(w)
	}
}
