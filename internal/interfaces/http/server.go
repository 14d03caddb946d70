// Package http provides the HTTP adapter for the application layer.
// It translates requests into service calls and service errors into status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/application/formfill"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/container"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthReporter reports component health for /health
type HealthReporter interface {
	Health(ctx context.Context) *container.HealthStatus
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Mode            string
	Auth            AuthConfig
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Mode:            gin.ReleaseMode,
		Auth:            DefaultAuthConfig(),
	}
}

// Services are the application services the server exposes
type Services struct {
	Forms       service.FormService
	Submissions service.SubmissionService
	Signatures  service.SignatureService
	Export      service.ExportService
	Sessions    formfill.SessionManager
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	health     HealthReporter
	logger     Logger
}

// NewServer creates a new HTTP server with the given services. health may be nil.
func NewServer(config ServerConfig, services Services, health HealthReporter, logger Logger) *Server {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		health:   health,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(authMiddleware(s.config.Auth))
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.health, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		// Form registry
		api.POST("/forms", h.CreateForm)
		api.GET("/forms", h.ListForms)
		api.GET("/forms/:id", h.GetForm)
		api.PUT("/forms/:id", h.UpdateForm)
		api.DELETE("/forms/:id", h.DeleteForm)

		api.POST("/form-schema/parse", h.ParseSchema)

		// Submissions
		api.POST("/form-submissions", h.SubmitForm)
		api.GET("/form-submissions", h.ListSubmissions)
		api.GET("/form-submissions/export", h.ExportSubmissions)
		api.PUT("/form-submissions/:id", h.UpdateSubmission)
		api.DELETE("/form-submissions/:id", h.DeleteSubmission)
		api.DELETE("/form-submissions", h.ClearSubmissions)

		// Signature placement
		api.GET("/signature-positions", h.ListSignaturePositions)
		api.GET("/signature-positions/:formType", h.GetSignaturePosition)
		api.PUT("/signature-positions/:formType", h.UpdateSignaturePosition)

		// Server-driven form fill
		fill := api.Group("/form-fill/sessions")
		fill.POST("", h.StartSession)
		fill.GET("/:id", h.GetSession)
		fill.DELETE("/:id", h.DiscardSession)
		fill.PUT("/:id/fields/:fieldId", h.SetSessionField)
		fill.POST("/:id/next", h.NextPhase)
		fill.POST("/:id/back", h.PreviousPhase)
		fill.POST("/:id/signature", h.CaptureSignature)
		fill.POST("/:id/validate", h.ValidateSession)
		fill.POST("/:id/submit", h.SubmitSession)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
