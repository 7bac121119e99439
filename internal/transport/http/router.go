// Package httptransport assembles the chi router: the middleware chain, the
// liveness and metrics endpoints, and the authenticated API surface.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	deskhandler "propdesk/internal/desk/handler"
	governancehandler "propdesk/internal/governance/handler"
	identityhandler "propdesk/internal/identity/handler"
	"propdesk/internal/platform/middleware"
	"propdesk/pkg/platform/httputil"
)

// Handlers bundles the per-feature handlers the router mounts.
type Handlers struct {
	Identity   *identityhandler.Handler
	Governance *governancehandler.Handler
	Desk       *deskhandler.Handler
}

// NewRouter wires all endpoints. Every API route sits behind authentication;
// only liveness and metrics are open.
func NewRouter(h Handlers, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Identity.Register(r)
		h.Governance.Register(r)
		h.Desk.Register(r)
	})

	return r
}
