package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
	"github.com/edudubai/platform/backend/internal/transport/http/dto"
	httperrors "github.com/edudubai/platform/backend/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Session exchanges an identity-provider access token for a local API
// token bound to a server-side session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternalError(w)
		return
	}

	var req dto.SessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, []string{"body must be valid JSON"})
		return
	}

	res, err := h.service.ExchangeProviderToken(r.Context(), req.AccessToken)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SessionResponse{
		OK:           true,
		Token:        res.AccessToken,
		ExpiresInSec: maxInt64(0, int64(time.Until(res.AccessExpires).Seconds())),
		User:         dto.SessionUser{ID: res.UserID, Email: res.Email},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternalError(w)
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternalError(w)
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeInvalidRequest(w, []string{"access_token is required"})
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeAuthRequired(w)
	default:
		writeInternalError(w)
	}
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeInvalidRequest(w http.ResponseWriter, details []string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
		Error:   "Invalid request",
		Details: details,
	})
}

func writeAuthRequired(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
		Error:   "Authentication required",
		Message: "sign in to continue",
	})
}

func writeInternalError(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Error: "Internal server error"})
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
