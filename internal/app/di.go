// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/chatcrypt/internal/config"
	cryptoDomain "github.com/allisson/chatcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/chatcrypt/internal/crypto/service"
	"github.com/allisson/chatcrypt/internal/http"
	messageHTTP "github.com/allisson/chatcrypt/internal/message/http"
	messageUsecase "github.com/allisson/chatcrypt/internal/message/usecase"
	"github.com/allisson/chatcrypt/internal/metrics"
	vaultHTTP "github.com/allisson/chatcrypt/internal/vault/http"
	vaultUsecase "github.com/allisson/chatcrypt/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	kmsKeeper       cryptoService.KMSKeeper

	// Services
	aeadManager cryptoService.AEADManager

	// Use Cases
	keyVault          vaultUsecase.KeyVault
	encryptionUseCase messageUsecase.EncryptionUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	kmsKeeperInit         sync.Once
	aeadManagerInit       sync.Once
	keyVaultInit          sync.Once
	encryptionUseCaseInit sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op
// implementation is used when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSKeeper returns the keeper that wraps exported key material, or nil when
// no KMS key URI is configured.
func (c *Container) KMSKeeper() (cryptoService.KMSKeeper, error) {
	c.kmsKeeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		keeper, err := cryptoService.NewKMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["kmsKeeper"] = fmt.Errorf("failed to open kms keeper: %w", err)
			return
		}
		c.kmsKeeper = keeper
	})
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// KeyVault returns the conversation key vault, wrapped with metrics recording.
func (c *Container) KeyVault() (vaultUsecase.KeyVault, error) {
	c.keyVaultInit.Do(func() {
		vault, err := c.initKeyVault()
		if err != nil {
			c.initErrors["keyVault"] = err
			return
		}
		c.keyVault = vault
	})
	if storedErr, exists := c.initErrors["keyVault"]; exists {
		return nil, storedErr
	}
	return c.keyVault, nil
}

// EncryptionUseCase returns the message encryption use case, wrapped with
// metrics recording.
func (c *Container) EncryptionUseCase() (messageUsecase.EncryptionUseCase, error) {
	c.encryptionUseCaseInit.Do(func() {
		uc, err := c.initEncryptionUseCase()
		if err != nil {
			c.initErrors["encryptionUseCase"] = err
			return
		}
		c.encryptionUseCase = uc
	})
	if storedErr, exists := c.initErrors["encryptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptionUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Zero all key material before the process exits.
	if c.keyVault != nil {
		if err := c.keyVault.Reset(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key vault reset: %w", err))
		}
	}

	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initKeyVault creates the key vault with all its dependencies.
func (c *Container) initKeyVault() (vaultUsecase.KeyVault, error) {
	algorithm := cryptoDomain.Algorithm(c.config.KeyAlgorithm)
	if !algorithm.Valid() {
		return nil, fmt.Errorf("unsupported key algorithm: %s", c.config.KeyAlgorithm)
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for key vault: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key vault: %w", err)
	}

	vault := vaultUsecase.NewKeyVault(c.AEADManager(), keeper, c.config.KeyTTL, algorithm)
	return vaultUsecase.NewKeyVaultWithMetrics(vault, bm), nil
}

// initEncryptionUseCase creates the encryption use case with all its dependencies.
func (c *Container) initEncryptionUseCase() (messageUsecase.EncryptionUseCase, error) {
	vault, err := c.KeyVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get key vault for encryption use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for encryption use case: %w", err)
	}

	uc := messageUsecase.NewEncryptionUseCase(vault, c.config.PreviewLimit)
	return messageUsecase.NewEncryptionUseCaseWithMetrics(uc, bm), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	vault, err := c.KeyVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get key vault for http server: %w", err)
	}

	uc, err := c.EncryptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption use case for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		c.config,
		logger,
		provider,
		messageHTTP.NewMessageHandler(uc, logger),
		vaultHTTP.NewKeyVaultHandler(vault, logger),
	)

	return server, nil
}
