package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/vending-machine/internal/config"
	"github.com/Lixing-Zhang/vending-machine/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// NewRouter registers every route of the vending API
func NewRouter(svc Service, auth config.AuthConfig, log *slog.Logger) http.Handler {
	healthHandler := NewHealthHandler(log, Version)
	inventoryHandler := NewInventoryHandler(svc, log)
	vendingHandler := NewVendingHandler(svc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "api_key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/machine", vendingHandler.State)

		r.Get("/inventory", inventoryHandler.ListItems)
		r.Get("/inventory/{selection}", inventoryHandler.GetItem)
		r.Get("/inventory/{selection}/quote", inventoryHandler.Quote)

		// Anything that moves money requires an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(auth))
			r.Post("/deposit", vendingHandler.Deposit)
			r.Post("/vend", vendingHandler.Vend)
		})
	})

	return r
}
