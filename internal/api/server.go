// Package api provides the HTTP API server for the ElectroGest daemon.
// It exposes the sales, catalog, stock, promotion, and reporting operations
// over REST so the launcher and other clients can drive the system without
// touching the database directly.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/version"
)

// Server is the ElectroGest API server.
type Server struct {
	config     *Config
	sessions   *SessionStore
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates an API server instance.
func NewServer(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API config: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	return &Server{
		config:    config,
		sessions:  NewSessionStore(config.SessionTTL),
		startTime: time.Now(),
	}, nil
}

// Start binds and serves in the background. Binding errors surface here;
// later serve errors only reach the log.
func (s *Server) Start() error {
	logging.Info("Starting HTTP API server on %s:%d", s.config.BindAddr, s.config.BindPort)

	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.BindAddr, s.config.BindPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Test binding first to catch errors immediately
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.httpServer.Addr, err)
	}
	listener.Close()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("HTTP API server started on %s:%d (version %s)",
		s.config.BindAddr, s.config.BindPort, version.DaemonVersion)
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Sessions exposes the session store for tests and for wiring session
// revocation into admin handlers.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}
