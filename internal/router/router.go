package router

import (
	"net/http"

	"github.com/eventease/api/internal/config"
	"github.com/eventease/api/internal/draft"
	"github.com/eventease/api/internal/handler"
	mw "github.com/eventease/api/internal/middleware"
	"github.com/eventease/api/internal/pricing"
	"github.com/eventease/api/internal/service"
	"github.com/eventease/api/internal/store"
	"github.com/eventease/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, st *store.Store, pool *pgxpool.Pool, hub *ws.Hub, drafts draft.Store) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"https://app.eventease.example.com",
			"https://stg-app.eventease.example.com",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(st, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/events/{eid}/invoice", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Invoices
		invoiceService := service.NewInvoiceService(
			st,
			pool,
			func(db store.DBTX) service.InvoiceStore {
				return store.New(db)
			},
			service.PricingConfig{
				ServiceFee: pricing.ServiceFeeConfig{
					Type:  cfg.ServiceFeeType,
					Value: cfg.ServiceFeeValue,
				},
				TaxRate: cfg.TaxRate,
			},
		)
		invoiceHandler := handler.NewInvoiceHandler(invoiceService, hub)
		invoiceHandler.RegisterRoutes(r)

		// Vendor catalog
		catalogHandler := handler.NewCatalogHandler(st)
		catalogHandler.RegisterRoutes(r)

		// Order drafts
		draftHandler := handler.NewDraftHandler(drafts)
		draftHandler.RegisterRoutes(r)
	})

	return r
}
