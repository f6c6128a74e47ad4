// Package httpx holds the JSON response helpers shared by all handlers.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type apiError struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError reports a failure with a human message and, for validation
// failures, the field-level detail list.
func WriteError(w http.ResponseWriter, status int, msg string, details any) {
	WriteJSON(w, status, apiError{Message: msg, Errors: details})
}
