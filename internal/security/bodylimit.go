package security

import (
	"net/http"

	"github.com/noah-isme/backend-aksi/internal/common"
)

// BodyLimit caps request payload sizes. Order forms with many lines stay
// well under any reasonable cap; anything larger is rejected outright.
type BodyLimit struct {
	Max int64
}

// Middleware rejects requests exceeding the configured limit with HTTP 413.
// The body is wrapped with http.MaxBytesReader so streaming decoders fail
// instead of buffering unbounded input.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
