// Package handlers contains the HTTP handlers for the club API. Handlers
// decode and parse requests, delegate to the domain services, and write
// the JSON envelope via the respond package.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/validation"
)

// decodeJSON reads a request body into dst. Unknown fields are ignored so
// frontend payloads can carry extra keys.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// writeServiceError maps a domain service failure onto the envelope:
// validation failures become 400 with details, anything else falls to the
// supplied handler.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback func()) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respond.ValidationFailed(w, r, verr.Details)
		return
	}
	fallback()
}
