// Package http provides the HTTP server and routing for the encryption API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/chatcrypt/internal/config"
	messageHTTP "github.com/allisson/chatcrypt/internal/message/http"
	"github.com/allisson/chatcrypt/internal/metrics"
	vaultHTTP "github.com/allisson/chatcrypt/internal/vault/http"
)

// Server represents the HTTP server for the encryption API.
type Server struct {
	config          *config.Config
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	messageHandler  *messageHTTP.MessageHandler
	keyVaultHandler *vaultHTTP.KeyVaultHandler
	rateLimiter     *rateLimiterStore
	router          *gin.Engine
	server          *http.Server
}

// NewServer creates the API server with its routes and middleware configured.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	messageHandler *messageHTTP.MessageHandler,
	keyVaultHandler *vaultHTTP.KeyVaultHandler,
) *Server {
	s := &Server{
		config:          cfg,
		logger:          logger,
		metricsProvider: metricsProvider,
		messageHandler:  messageHandler,
		keyVaultHandler: keyVaultHandler,
	}
	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRouter builds the Gin engine with middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled,
		s.config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.config.RateLimitEnabled {
		s.rateLimiter = newRateLimiterStore(
			s.config.RateLimitRequestsPerSec,
			s.config.RateLimitBurst,
		)
		router.Use(s.rateLimiter.middleware(s.logger))
	}

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.config.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		v1.POST("/conversations/:conversation_id/encrypt", s.messageHandler.EncryptHandler)
		v1.POST("/decrypt", s.messageHandler.DecryptHandler)

		v1.POST("/conversations/:conversation_id/keys", s.keyVaultHandler.EnsureKeyHandler)
		v1.GET("/conversations/:conversation_id/keys/active", s.keyVaultHandler.GetActiveKeyHandler)
		v1.POST("/conversations/:conversation_id/keys/rotate", s.keyVaultHandler.RotateKeyHandler)
		v1.GET("/conversations/:conversation_id/keys/export", s.keyVaultHandler.ExportKeyHandler)
		v1.DELETE("/keys/:fingerprint", s.keyVaultHandler.RevokeKeyHandler)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The vault is
// in-memory, so readiness only requires the router to be wired.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.messageHandler == nil || s.keyVaultHandler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"vault": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"vault": "ok"},
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server and stops the rate limiter's
// cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	return s.server.Shutdown(ctx)
}
