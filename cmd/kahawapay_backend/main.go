package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kahawapay/kahawapay_backend/internal/adapters/kafka"
	"github.com/kahawapay/kahawapay_backend/internal/adapters/upstream"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/core/services"
	"github.com/kahawapay/kahawapay_backend/internal/handlers"
	"github.com/kahawapay/kahawapay_backend/internal/middleware"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"
	"github.com/kahawapay/kahawapay_backend/internal/repositories/database/pgsql"
	"github.com/kahawapay/kahawapay_backend/internal/utils"
	"github.com/kahawapay/kahawapay_backend/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title KahawaPay Backend API
// @version 1.0
// @description Crypto tipping settlement backend: rate book, tip previews and payout tracking.

// @host localhost:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registerCustomValidators(logger)

	// Wire adapters.
	assetPrice := upstream.NewAssetPriceClient(
		fmt.Sprintf("%s?ids=%s&vs_currencies=usd", cfg.AssetPriceURL, cfg.AssetSymbol),
		cfg.AssetSymbol,
		logger,
	)

	var rateSource services.RateRowsFetcher
	if cfg.RateSourceURL != "" {
		rateSource = upstream.NewRateSourceClient(cfg.RateSourceURL)
	}

	var notifier portssvc.PayoutNotifier
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewPayoutProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer producer.Close()
		notifier = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, payout notifications disabled")
	}

	repos := pgsql.NewRepositoryContainer(dbPool)
	container, rateService, txnService := services.NewServiceContainer(cfg, repos, assetPrice, notifier, cfg.FeePercent, cfg.GuestLimitUSD)

	// Warm the in-memory views before serving traffic; failures are logged
	// and retried by the background refresher.
	if err := rateService.LoadFromStore(ctx); err != nil {
		logger.Warn("Failed to load rate book from store", slog.String("error", err.Error()))
	}
	if err := txnService.RefreshSnapshot(ctx); err != nil {
		logger.Warn("Failed to load transaction snapshot from store", slog.String("error", err.Error()))
	}

	refresher := services.NewRefreshService(cfg.RefreshInterval, container.Rate, container.Transaction, assetPrice, rateSource, logger)
	refresher.Start(ctx)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}
	return nil
}

// registerCustomValidators installs the "currencycode" binding tag used by
// the preview and transaction DTOs.
func registerCustomValidators(logger *slog.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Error("Failed to access gin validator engine")
		os.Exit(1)
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		_, err := services.NormalizeCurrencyCode(fl.Field().String())
		return err == nil
	})
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return corsCfg
}
