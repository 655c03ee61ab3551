package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdpulso/clinic-assistant/internal/assistant"
	httpmiddleware "github.com/mdpulso/clinic-assistant/internal/http/middleware"
	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	AssistantHandler *assistant.Handler
	SessionJWTSecret string
	MetricsHandler   http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Doctor-facing API (session required)
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.SessionAuth(cfg.SessionJWTSecret))
		if cfg.AssistantHandler != nil {
			api.Post("/api/assistant", cfg.AssistantHandler.HandleChat)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
