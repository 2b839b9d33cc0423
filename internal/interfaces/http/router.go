package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/anhth20011/dockprep/internal/interfaces/http/handlers"
	"github.com/anhth20011/dockprep/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the complete HTTP route tree. Optional handlers may be nil; their
// routes are simply not mounted.
type RouterConfig struct {
	SessionHandler *handlers.SessionHandler
	ResultHandler  *handlers.ResultHandler
	JobsHandler    *handlers.JobsHandler
	HealthHandler  *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter constructs the complete route tree: global middleware, public
// probe endpoints, the metrics endpoint, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, "/healthz", "/readyz", "/metrics"))
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.SessionHandler != nil {
			cfg.SessionHandler.RegisterRoutes(api)
		}
		if cfg.ResultHandler != nil {
			cfg.ResultHandler.RegisterRoutes(api)
		}
		if cfg.JobsHandler != nil {
			cfg.JobsHandler.RegisterRoutes(api)
		}
	})

	return r
}
