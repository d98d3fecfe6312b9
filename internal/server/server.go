// Package server exposes the watchlist HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"pulse/internal/screener"
	"pulse/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Log      zerolog.Logger
	Store    store.Store
	Screener *screener.Service
}

// Server is the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	store    store.Store
	screener *screener.Service
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		store:    cfg.Store,
		screener: cfg.Screener,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(120 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/screener", s.handleScreener)
		r.Get("/categories", s.handleCategories)

		r.Post("/tickers", s.handleAddTicker)
		r.Delete("/tickers/{symbol}", s.handleDeleteTicker)

		r.Get("/transactions/{symbol}", s.handleListTransactions)
		r.Post("/transactions/{symbol}", s.handleAddTransaction)
		r.Delete("/transactions/{symbol}/{id}", s.handleDeleteTransaction)
		r.Get("/position/{symbol}", s.handlePosition)

		r.Post("/alerts/{symbol}", s.handlePutAlert)
		r.Delete("/alerts/{symbol}", s.handleDeleteAlert)

		r.Post("/notes/{symbol}", s.handlePutNote)

		r.Get("/theme", s.handleGetTheme)
		r.Post("/theme", s.handleSetTheme)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler { return s.router }
