package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/engagesync/internal/api"
	"infinite-experiment/engagesync/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	limiter := middleware.NewRateLimiter(20, 40, "127.0.0.1")

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.HookAuthMiddleware(deps.Services.HookSigner)) // every route needs a signed token

		// Change-capture entry points
		v1.Post("/records/dispatch", handlers.DispatchRecords())
		v1.Post("/records/resync", handlers.ResyncRecords())

		// Audit trail
		v1.Get("/sync-logs", handlers.ListSyncLogs())

		// Configuration store writes
		v1.Put("/credentials", handlers.SaveCredentials())
		v1.Post("/sync-definitions", handlers.SaveSyncDefinition())
		v1.Delete("/sync-definitions/{id}", handlers.DeleteSyncDefinition())
		v1.Put("/sync-definitions/{id}/mappings", handlers.ReplaceFieldMappings())
	})
}
