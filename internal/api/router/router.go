package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flordomaracuja/lead-capture/internal/http/handlers"
	httpmiddleware "github.com/flordomaracuja/lead-capture/internal/http/middleware"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *handlers.LeadsHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	HealthHandler      *handlers.HealthHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP limit on the public capture endpoint. Zero disables it.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Get("/health", cfg.HealthHandler.Live)
			public.Get("/health/ready", cfg.HealthHandler.Ready)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.LeadsHandler != nil {
		r.Group(func(capture chi.Router) {
			if cfg.RateLimitPerSecond > 0 {
				capture.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
			}
			capture.Post("/leads/web", cfg.LeadsHandler.SubmitLead)
			capture.Get("/leads/draft", cfg.LeadsHandler.GetDraft)
			capture.Put("/leads/draft", cfg.LeadsHandler.SaveDraft)
			if cfg.AnalyticsHandler != nil {
				capture.Post("/analytics/events", cfg.AnalyticsHandler.TrackEvent)
				capture.Post("/analytics/attribution", cfg.AnalyticsHandler.CaptureAttribution)
			}
		})
	}

	return r
}
