// Package middleware holds the HTTP middleware chain: request metadata and
// bearer-token authentication.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"boardcheck/pkg/requestcontext"
)

// RequestMeta assigns each request an ID and a request-scoped timestamp.
// An X-Request-ID supplied by the caller is kept so IDs correlate across
// services; the header is echoed back either way. Every record written while
// serving one request carries the same timestamp.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
