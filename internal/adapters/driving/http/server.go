package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// PlatformStatus reports whether a platform has OAuth app credentials.
type PlatformStatus interface {
	Configured(platform domain.Platform) bool
}

// ErrorRedirector builds the frontend error routes used when a callback
// handler cannot finish normally.
type ErrorRedirector interface {
	ConnectError(message string) string
	LoginError(message string) string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	logger     *slog.Logger
	now        func() time.Time

	// Services
	oauthService      driving.OAuthService
	loginService      driving.LoginService
	connectionService driving.ConnectionService
	publishService    driving.PublishService
	contentService    driving.ContentService

	platforms PlatformStatus
	redirects ErrorRedirector

	// Infrastructure, keyed by backend name
	pingers map[string]Pinger
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    3001,
		Version: "dev",
	}
}

// Services bundles what the handlers depend on
type Services struct {
	OAuth       driving.OAuthService
	Login       driving.LoginService
	Connections driving.ConnectionService
	Publish     driving.PublishService
	Content     driving.ContentService

	Platforms PlatformStatus
	Redirects ErrorRedirector
}

// NewServer creates a new HTTP server. pingers may be empty when every
// store is in memory.
func NewServer(cfg Config, svc Services, pingers map[string]Pinger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		logger:            logger,
		now:               time.Now,
		oauthService:      svc.OAuth,
		loginService:      svc.Login,
		connectionService: svc.Connections,
		publishService:    svc.Publish,
		contentService:    svc.Content,
		platforms:         svc.Platforms,
		redirects:         svc.Redirects,
		pingers:           pingers,
	}

	s.setupRoutes()

	s.handler = NewRecoveryMiddleware(logger).Handler(
		NewLoggingMiddleware(logger).Handler(
			NewCORSMiddleware(cfg.CORSOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Connection status
	s.router.HandleFunc("GET /user/{userId}/connections", s.handleListConnections)
	s.router.HandleFunc("DELETE /user/{userId}/connections/{platform}", s.handleDisconnect)

	// OAuth flows. Callbacks are browser navigations and always redirect.
	s.router.HandleFunc("GET /auth/google/session", s.handleGoogleSession)
	s.router.HandleFunc("GET /auth/{platform}", s.handleAuthorize)
	s.router.Handle("GET /auth/{platform}/callback", s.callbackRecovery(http.HandlerFunc(s.handleCallback)))

	// Content
	s.router.HandleFunc("POST /generate", s.handleGenerate)
	s.router.HandleFunc("POST /post/{platform}", s.handlePost)
}

// Handler returns the router wrapped in middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
