package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	sess := session.GuestSession()
	if cfg.UserID != "" {
		sess = session.ForUser(cfg.UserID)
	}
	store := sess.Store(result.Store)

	book, err := ledger.New(ctx, store)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	recurring := services.NewRecurringService(store, book)

	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(cfg.RecurringInterval)
		defer ticker.Stop()

		// Process once on startup, then on every tick. The daily gate
		// inside the service keeps repeated ticks idempotent.
		if count, err := recurring.Run(ctx, time.Now()); err != nil {
			logger.Error("Initial recurring processing failed", "error", err)
		} else {
			logger.Info("Initial recurring processing complete", "created", count)
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				count, err := recurring.Run(ctx, now)
				if err != nil {
					logger.Error("Recurring processing failed", "error", err)
					continue
				}
				logger.Info("Recurring processing complete", "created", count)
			}
		}
	})

	if result.AMQP != nil {
		g.Go(func() error {
			return result.AMQP.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
				logger.Info("Budget alert received",
					"category", msg.Category,
					"severity", msg.Severity,
					"message", msg.Message)
				return nil
			})
		})
	} else {
		logger.Info("AMQP disabled, alert consumption not started")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring-worker shutdown complete")
}
