// Package httpapi exposes the HTTP API layer of the slope calculator: the
// HTML form, the JSON API and the operational endpoints.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code. The
// request id set by WithRequestID is echoed in the body.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{
		Error:     message,
		Details:   details,
		RequestID: w.Header().Get("X-Request-Id"),
	})
}
