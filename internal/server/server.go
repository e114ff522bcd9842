package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qnahub/backend/internal/config"
)

// Server wraps the HTTP server and related dependencies.
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
	router chi.Router
}

// New constructs a server with base routes and middleware wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(loggingMiddleware(logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		server: srv,
		router: router,
	}
}

// Run starts the HTTP server and blocks until it exits or errors.
func (s *Server) Run() error {
	s.logger.Info("api server listening", "addr", s.server.Addr, "env", s.cfg.Env)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server within the provided context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Router exposes the underlying router for route registration by other packages.
func (s *Server) Router() chi.Router {
	return s.router
}
