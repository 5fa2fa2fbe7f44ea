// Package respond writes the API's JSON envelopes. Every response is
// either {success:true, data, count?, message?} or
// {success:false, error, details?}.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type successEnvelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Data writes a success envelope with a data payload.
func Data(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

// List writes a success envelope with a data payload and its count.
func List(w http.ResponseWriter, status int, data any, count int) {
	writeJSON(w, status, successEnvelope{Success: true, Count: &count, Data: data})
}

// Message writes a success envelope with a message and optional data.
func Message(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data, Message: message})
}

// Raw writes an arbitrary payload, for responses that extend the envelope.
func Raw(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

// Error writes a failure envelope. 5xx responses log at error level, 4xx
// at warn, using the request-scoped logger.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, err error, details ...string) {
	if err != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	writeJSON(w, status, errorEnvelope{Success: false, Error: message, Details: details})
}

// ValidationFailed writes the 400 envelope for invalid request bodies.
func ValidationFailed(w http.ResponseWriter, r *http.Request, details []string) {
	Error(w, r, http.StatusBadRequest, "Validation failed", nil, details...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; nothing useful left to do.
		_ = err
	}
}
