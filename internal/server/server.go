// Package server hosts the HTTP surface: the message endpoint, the operator
// console websocket and the health check.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/router"
)

// Server is the pulsedesk HTTP server.
type Server struct {
	cfg        config.ServerConfig
	mux        chi.Router
	httpServer *http.Server
}

// New creates the server and mounts all routes.
func New(cfg config.ServerConfig, rt *router.Router) *Server {
	s := &Server{cfg: cfg}
	s.mux = s.buildRouter(rt)
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter(rt *router.Router) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	router.RegisterRoutes(r, rt)
	r.Get("/api/v1/console", newConsole(rt).handleWebSocket)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.mux }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("pulsedesk server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
