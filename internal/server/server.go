package server

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"foodprint/internal/handlers"
	applog "foodprint/internal/log"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr string

	// Namespace is the mapping namespace applied when a request does not
	// name one.
	Namespace string

	Database *gorm.DB
}

// Server wraps an http.Server and exposes helpers for bootstrapping the
// service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) *Server {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"namespace", cfg.Namespace,
	)

	handlers.Configure(cfg.Database, cfg.Namespace)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           newRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration
// tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
