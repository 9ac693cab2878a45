package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "boardcheck/pkg/domain"
	dErrors "boardcheck/pkg/domain-errors"
	"boardcheck/pkg/platform/httputil"
	"boardcheck/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the requester it
// identifies.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.RequesterID, error)
}

// Authenticate validates the Authorization header when one is present and
// injects the requester identity into the context. Requests without a bearer
// token pass through unauthenticated; handlers that need an identity reject
// those themselves. A token that is present but invalid is always rejected.
func Authenticate(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "malformed authorization header",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authorization header must use the Bearer scheme"))
				return
			}

			requester, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "bearer token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithRequester(ctx, requester)))
		})
	}
}
