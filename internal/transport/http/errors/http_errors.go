package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is the error envelope every endpoint returns: ok is always
// false, error carries the stable machine-checked label, message and
// details add human context when there is any.
type APIError struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
