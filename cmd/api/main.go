package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/citylinker/backend/internal/adapters/security"
	"github.com/citylinker/backend/internal/api/handlers"
	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/api/routes"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/bootstrap"
	"github.com/citylinker/backend/internal/infrastructure/observability"
	"github.com/citylinker/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, observability.NewLogBridge(cfg.OTEL.ServiceName))
			if err := observability.StartRuntimeMetrics(); err != nil {
				log.Warn().Err(err).Msg("Failed to start runtime metrics")
			}
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Storage and sessions
	backend, err := bootstrap.Open(ctx, cfg, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing backends")
		}
	}()

	// Services
	storage := backend.Storage
	sessions := services.NewSessionService(backend.Sessions, cfg.Session.TTL)
	authService := services.NewAuthService(storage, security.NewBcryptHasher(cfg.Security.BcryptCost))
	publicationService := services.NewPublicationService(storage)
	userService := services.NewUserService(storage)

	// Handlers
	checks := make(map[string]handlers.Pinger, len(backend.Checks))
	for name, check := range backend.Checks {
		checks[name] = check
	}
	cookie := handlers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}

	router := routes.NewRouter(
		middleware.NewAuth(sessions, storage, cfg.Session.CookieName),
		handlers.NewAuthHandler(authService, sessions, cookie, metrics),
		handlers.NewPublicHandler(storage, publicationService, checks),
		handlers.NewPublicationHandler(storage, publicationService),
		handlers.NewAdminHandler(storage, publicationService, userService, metrics),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Str("env", cfg.Env).Str("storage", cfg.Database.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
