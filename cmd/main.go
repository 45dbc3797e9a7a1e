package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fmt"

	httpadapter "brandreach/internal/adapter/http"
	"brandreach/internal/adapter/notify"
	"brandreach/internal/adapter/postgres"
	"brandreach/internal/adapter/usecase"
	"brandreach/internal/config"
	"brandreach/internal/db"
)

// main is the entry point of the brandreach service. It loads
// configuration, optionally runs database migrations and demo seeding,
// initializes the database pool, repositories and workflow services,
// then starts the HTTP server. On receiving a termination signal it
// gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub‑config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Platform.SeedDemo {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	campaignRepo := postgres.NewCampaignRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	submissionRepo := postgres.NewSubmissionRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	dispatcher := notify.NewDispatcher(notificationRepo, logger)

	campaigns := usecase.NewCampaignService(campaignRepo)
	assignments := usecase.NewAssignmentService(assignmentRepo, campaignRepo, userRepo, dispatcher)
	content := usecase.NewContentService(submissionRepo, assignmentRepo, campaignRepo, userRepo, dispatcher, logger)
	payments := usecase.NewPaymentService(paymentRepo, assignmentRepo, campaignRepo, dispatcher, cfg.Platform.Fee(), logger)
	notifications := usecase.NewNotificationService(notificationRepo)

	handler := httpadapter.NewHandler(campaigns, assignments, content, payments, notifications, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
