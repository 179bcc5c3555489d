package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infinite-experiment/engagesync/internal/api"
	"infinite-experiment/engagesync/internal/config"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/middleware"
)

// RegisterRoutes builds the HTTP handler around fully wired dependencies
func RegisterRoutes(deps *api.Dependencies, cfg *config.Config, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	if !cfg.IsProduction() {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthCheck", handlers.HealthCheck(upSince))
	r.Handle("/metrics", promhttp.Handler())

	RegisterAPIRoutes(r, handlers, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
