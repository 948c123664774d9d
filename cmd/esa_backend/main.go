package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/services"
	"github.com/SscSPs/expense_split_app/internal/handlers"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/SscSPs/expense_split_app/internal/platform/config"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/SscSPs/expense_split_app/internal/platform/logging"
	"github.com/SscSPs/expense_split_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_split_app/internal/utils"
	"github.com/SscSPs/expense_split_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// @title Expense Split API
// @version 1.0
// @description Expenses, split bills and loans between users, with aggregated balances and bulk settlement.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var skipMigrations bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), skipMigrations)
		},
	}
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply all pending migrations, or roll back the last one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pgsql.MigrateUp), string(pgsql.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			return pgsql.RunMigrations(cfg.DatabaseURL, pgsql.MigrationDirection(args[0]), logger)
		},
	}

	rootCmd := &cobra.Command{
		Use:          "esa_backend",
		Short:        "Expense split backend",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runServer(ctx context.Context, skipMigrations bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if !skipMigrations {
		logger.Info("Running database migrations...")
		if err := pgsql.RunMigrations(cfg.DatabaseURL, pgsql.MigrateUp, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			return err
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Events are best effort; the API works without a broker
			logger.Warn("Failed to connect to AMQP broker, events disabled", slog.String("error", err.Error()))
		} else {
			publisher = amqpPublisher
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return err
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
