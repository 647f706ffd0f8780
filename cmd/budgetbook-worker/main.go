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

	"budgetbook/internal/amqp"
	"budgetbook/internal/config"
	"budgetbook/internal/export"
	gsheet "budgetbook/internal/export/google"
	applog "budgetbook/internal/log"
	"budgetbook/internal/store"
	"budgetbook/internal/worker"
)

func main() {
	// Load .env for local development; in containers the env is real.
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, "worker")
	applog.SetDefault(logger)

	logger.Info("Starting budgetbook worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := store.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Sheet export is optional; without a spreadsheet the worker only
	// maintains the summary rows in SQLite.
	var exporter export.SummaryWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	summaryWorker := worker.NewSummaryWorker(repo, repo, repo, exporter, cfg.SummaryBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on anything missed while the worker was down.
	logger.Info("Performing startup recompute pass")
	if err := summaryWorker.RecomputeAll(ctx); err != nil {
		logger.Error("Startup recompute failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumePurchaseEvents(ctx, summaryWorker.HandlePurchaseEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Periodic recompute backstops lost messages.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SummaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := summaryWorker.RecomputeAll(ctx); err != nil {
					logger.Error("Periodic recompute failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
