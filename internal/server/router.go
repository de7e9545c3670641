package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/chatlens/chatlens/internal/handler"
	"github.com/chatlens/chatlens/internal/middleware"
)

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Logger        *slog.Logger
	IsDevelopment bool
	Version       string

	Health  *handler.HealthHandler
	Reports *handler.ReportHandler
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	CORS          middleware.CORSConfig
	MaxUploadSize int64
	RateLimit     middleware.RateLimitConfig
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := handler.New(cfg.Version)
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.IsDevelopment))
	r.Use(middleware.Security(cfg.IsDevelopment))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.With(
				middleware.RateLimitUpload(cfg.RateLimit),
				middleware.MaxBodySize(cfg.MaxUploadSize+multipartOverhead),
			).Post("/", cfg.Reports.Create)
			r.Get("/{id}", cfg.Reports.Get)
			r.Get("/{id}/teaser", cfg.Reports.Teaser)
			r.With(middleware.MaxBodySize(shareBodyLimit)).Post("/{id}/share", cfg.Reports.Share)
		})
		r.Get("/shared/{token}", cfg.Reports.Shared)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

const (
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10
	shareBodyLimit    = 1 << 10
)
