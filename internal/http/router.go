// Package httpapi assembles the HTTP surface: middleware chain, verification
// endpoints, health, and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boardcheck/internal/platform/middleware"
	verificationhandler "boardcheck/internal/verification/handler"
	"boardcheck/pkg/platform/httputil"
)

// HealthChecker reports availability of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints behind the shared middleware chain.
// Authentication is soft at the router level: the middleware rejects invalid
// tokens, while each handler decides whether an identity is required.
func NewRouter(
	verification *verificationhandler.Handler,
	validator middleware.TokenValidator,
	logger *slog.Logger,
	checks map[string]HealthChecker,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestMeta)
	r.Use(middleware.Authenticate(validator, logger))

	verification.Register(r)

	r.Get("/healthz", handleHealth(checks))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check.Health(r.Context()); err != nil {
					resp.Checks[name] = err.Error()
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, resp)
	}
}
