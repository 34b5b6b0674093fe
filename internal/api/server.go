package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/handlers"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/middleware"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	// InboundSecret is checked on advisor callbacks when set.
	InboundSecret string
	SessionID     string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           3001,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Deps are the services the routes are wired to.
type Deps struct {
	Catalog *catalog.Catalog
	Coupons *coupon.Registry
	Carts   handlers.CartService
	Advisor handlers.Advisor
	Calls   storage.AdvisoryCallRepository
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		router: chi.NewRouter(),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.deps.Advisor.Transport())
	s.router.Get("/health", healthHandler.ServeHTTP)

	productsHandler := handlers.NewProductsHandler(s.deps.Catalog, s.logger)
	s.router.Get("/products", productsHandler.List)

	cartHandler := handlers.NewCartHandler(s.deps.Carts, s.logger)
	s.router.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.Get)
		r.Post("/add", cartHandler.Add)
		r.Post("/remove", cartHandler.Remove)
		r.Post("/apply-coupon", cartHandler.ApplyCoupon)
		r.Post("/clear", cartHandler.Clear)
	})

	couponsHandler := handlers.NewCouponsHandler(s.deps.Coupons, s.deps.Advisor, s.logger)
	s.router.Get("/coupons", couponsHandler.List)
	s.router.Get("/coupons/best", couponsHandler.Best)

	// Advisor callbacks and the latest suggestion
	suggestionsHandler := handlers.NewSuggestionsHandler(s.deps.Advisor, s.config.InboundSecret, s.config.AllowedOrigins, s.logger)
	s.router.Post("/coupon-result", suggestionsHandler.Receive)
	s.router.Get("/coupon-suggestion", suggestionsHandler.Latest)
	s.router.Get("/coupon-suggestion/stream", suggestionsHandler.Stream)

	advisoryHandler := handlers.NewAdvisoryHandler(s.deps.Advisor, s.deps.Carts, s.deps.Calls, s.config.SessionID, s.logger)
	s.router.Post("/advisory/simulate", advisoryHandler.Simulate)
	s.router.Get("/advisory/calls", advisoryHandler.Calls)
	s.router.Post("/events/cart-updated", advisoryHandler.CartUpdated)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
