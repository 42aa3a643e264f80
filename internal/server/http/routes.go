package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gane/internal/logging"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"

	apiBasePath  = "/api"
	statusPath   = "/status"
	authBasePath = "/auth"
)

// NewRouter builds the public API route table. Metrics are not served here;
// see NewMetricsRouter.
func NewRouter(h *Handler, obs RequestObserver, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	if obs != nil {
		r.Use(instrument(obs))
	}

	r.Get(healthPath, h.Health)

	r.Route(apiBasePath, func(r chi.Router) {
		r.Get(statusPath, h.Status)
		r.Route(authBasePath, func(r chi.Router) {
			configureAuthRoutes(r, h, log)
		})
	})

	return r
}

// NewMetricsRouter serves metricsHandler on GET /metrics for the separate
// metrics listener.
func NewMetricsRouter(metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, metricsPath, metricsHandler)
	return r
}

func configureAuthRoutes(r chi.Router, h *Handler, log logging.Logger) {
	r.Post("/register", makeHandler(log, h.Register))
	r.Post("/login", makeHandler(log, h.Login))
	r.Post("/guest", makeHandler(log, h.Guest))
	r.Get("/me", makeHandler(log, h.Me))
	r.Post("/logout", makeHandler(log, h.Logout))
}
