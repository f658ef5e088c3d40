package handlers

import (
	"net/http"

	httperrors "github.com/edudubai/platform/backend/internal/transport/http/errors"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, map[string]any{
		"ok":      true,
		"status":  "healthy",
		"version": h.version,
	})
}
