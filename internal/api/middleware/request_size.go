package middleware

import (
	"net/http"
)

const (
	// PublicMaxBodySize caps public submissions at 1MB.
	PublicMaxBodySize int64 = 1 << 20

	// AdminMaxBodySize caps admin payloads at 5MB, leaving room for
	// data-URI images in gallery uploads.
	AdminMaxBodySize int64 = 5 << 20
)

// RequestSize wraps the request body with http.MaxBytesReader so reads
// past maxBytes fail and the connection is closed.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
