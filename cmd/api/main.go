package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Raymond9734/customer-records/internal/cache"
	"github.com/Raymond9734/customer-records/internal/config"
	"github.com/Raymond9734/customer-records/internal/db"
	"github.com/Raymond9734/customer-records/internal/db/migrations"
	"github.com/Raymond9734/customer-records/internal/handler"
	"github.com/Raymond9734/customer-records/internal/logging"
	"github.com/Raymond9734/customer-records/internal/repository"
	"github.com/Raymond9734/customer-records/internal/service"
)

func main() {
	// .env is optional; real environment variables take precedence
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env file", slog.String("error", envErr.Error()))
	}

	logger.Info("starting customer records API server",
		slog.String("storage", cfg.Storage.Driver),
		slog.Duration("cache_ttl", cfg.Cache.TTL),
	)

	// Initialize storage
	customerRepo, healthChecker, closeStorage, err := openStorage(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	// Initialize list cache
	var listCache cache.ListCache = cache.Nop{}
	if cfg.Cache.TTL > 0 {
		listCache = cache.NewTTLCache(cfg.Cache.TTL)
	}

	// Initialize services and handlers
	customerSvc := service.NewCustomerService(customerRepo, listCache, logger)
	customerHandler := handler.NewCustomerHandler(customerSvc, logger)
	healthHandler := handler.NewHealthHandler(healthChecker, logger)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(customerHandler, healthHandler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		closeStorage()
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			closeStorage()
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}

// openStorage builds the customer repository selected by configuration.
// The returned health checker is nil for in-memory storage.
func openStorage(cfg *config.Config, logger *slog.Logger) (repository.CustomerRepository, handler.HealthChecker, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("using in-memory storage, customers will not survive a restart")
		return repository.NewMemoryCustomerRepository(), nil, func() {}, nil
	}

	dbCfg := db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	// Connect to database
	database, err := db.New(dbCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := migrations.RunMigrationsUp(dbCfg.DSN()); err != nil {
			_ = database.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	closed := false
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}

	return repository.NewCustomerRepository(database.DB), database, closeFn, nil
}
