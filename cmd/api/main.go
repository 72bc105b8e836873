package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-mercado/internal/auth"
	"mini-mercado/internal/cache"
	"mini-mercado/internal/config"
	"mini-mercado/internal/database"
	"mini-mercado/internal/handler"
	"mini-mercado/internal/mailer"
	"mini-mercado/internal/repository"
	"mini-mercado/internal/router"
	"mini-mercado/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting mini-mercado API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Accounts always live in PostgreSQL; the store backend only
	// selects where products are persisted.
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool, logger)

	var productRepo repository.ProductRepository
	if cfg.Store.Backend == config.StoreBackendFile {
		logger.Info().Str("path", cfg.Store.FilePath).Msg("using file-backed product store")
		productRepo, err = repository.NewFileProductRepository(cfg.Store.FilePath, logger)
		if err != nil {
			return fmt.Errorf("failed to open inventory file: %w", err)
		}
	} else {
		productRepo = repository.NewProductRepository(pool, logger)
	}

	// Initialize the product cache
	productCache := cache.NewNopCache()
	if cfg.Redis.Enabled {
		productCache, err = cache.NewRedisCache(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
	}
	defer productCache.Close()

	// Initialize token signing and the background mail worker
	tokens := auth.NewTokens(
		cfg.Auth.Secret,
		cfg.Auth.Issuer,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		logger,
	)

	mail := mailer.New(logger)
	defer mail.Close()

	// Initialize services
	productService := service.NewProductService(productRepo, productCache, logger)
	authService := service.NewAuthService(userRepo, tokens, mail, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	// Initialize router
	mux := router.New(productHandler, authHandler, tokens, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
