package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sterlingfx/currency_converter_app/internal/adapters/cache"
	"github.com/sterlingfx/currency_converter_app/internal/adapters/database/pgsql"
	"github.com/sterlingfx/currency_converter_app/internal/core/services"
	"github.com/sterlingfx/currency_converter_app/internal/handlers"
	"github.com/sterlingfx/currency_converter_app/internal/middleware"
	"github.com/sterlingfx/currency_converter_app/internal/platform/config"
	"github.com/sterlingfx/currency_converter_app/internal/platform/fixtures"
	"github.com/sterlingfx/currency_converter_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Currency Converter API
// @version 1.0
// @description Currency conversion service backed by base-relative exchange rates.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key issued by this service.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Root context canceled on SIGINT/SIGTERM; drives graceful shutdown.
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(appCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateCache, err := cache.NewRateCache(appCtx, cfg)
	if err != nil {
		logger.Error("Failed to initialize rate cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	if rateCache != nil {
		defer rateCache.Close()
		repos.ExchangeRateRepo = cache.NewCachedExchangeRateRepository(repos.ExchangeRateRepo, rateCache)
		logger.Info("Rate cache enabled", slog.String("driver", cfg.CacheDriver))
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.BootstrapAPIKey != "" {
		if err := serviceContainer.APIKey.EnsureBootstrapKey(appCtx, cfg.BootstrapAPIKey); err != nil {
			logger.Error("Failed to install bootstrap api key", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.FixturesDir != "" {
		loader := fixtures.NewLoader(cfg.FixturesDir, cfg.BaseCurrencyCode, serviceContainer.Currency, serviceContainer.ExchangeRate)
		if err := loader.Load(appCtx); err != nil {
			logger.Error("Failed to load fixtures", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if cfg.FixturesReloadInterval > 0 {
			scheduler := fixtures.NewScheduler(loader, cfg.FixturesReloadInterval)
			if err := scheduler.Start(appCtx); err != nil {
				logger.Error("Failed to start fixture scheduler", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.Default(),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-appCtx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}

// runMigrations applies all pending migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		_ = migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		_ = migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		_ = migrationDB.Close()
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		_, _ = m.Close()
		return upErr
	}

	// Close also surfaces dirty migration state.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
