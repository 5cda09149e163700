package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/billed-app/bill-service/internal/auth"
	"github.com/billed-app/bill-service/internal/bill"
	"github.com/billed-app/bill-service/internal/category"
	"github.com/billed-app/bill-service/internal/transport/middleware"
	"github.com/billed-app/bill-service/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, store Pinger, authHandler *auth.Handler, billHandler *bill.Handler, categoryHandler *category.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(store)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Public expense types route (no auth required)
		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		if authHandler != nil && billHandler != nil {
			// Protected routes that require a session
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Route("/bills", func(br chi.Router) {
					br.Post("/file", billHandler.HandleFileChange) // file-change event
					br.Post("/", billHandler.HandleSubmit)         // form-submit event
					br.Get("/", billHandler.ListBills)             // listing surface
				})
			})
		}
	})
}
