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

	"divvy/internal/config"
	"divvy/internal/event"
	applog "divvy/internal/log"
	"divvy/internal/persist"
	filestore "divvy/internal/persist/file"
	sqlitestore "divvy/internal/persist/sqlite"
	"divvy/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	applog.Setup()

	slog.Info("Starting divvy-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		slog.Error("Memory backend has no durable snapshots to mirror")
		os.Exit(1)
	}

	// The worker reads the same snapshots the server writes
	var source persist.Store
	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlitestore.New(cfg.SQLiteDBPath)
		if err != nil {
			slog.Error("Failed to open primary backend", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer s.Close()
		source = s
	default:
		s, err := filestore.New(cfg.DataDir)
		if err != nil {
			slog.Error("Failed to open primary backend", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		source = s
	}

	mirror, err := worker.NewMirror(cfg.MirrorDBPath)
	if err != nil {
		slog.Error("Failed to initialize mirror", "error", err, "path", cfg.MirrorDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	amqpClient, err := event.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(source, mirror)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up with whatever changed while the worker was down
	if err := mirrorWorker.StartupCheck(ctx); err != nil {
		slog.Error("Startup check failed", "error", err)
		// Keep running, the consumer and sweeps will retry
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeChanges(gctx, func(msg *event.ChangeMessage) error {
			return mirrorWorker.HandleChange(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := mirrorWorker.SweepAll(gctx); err != nil {
					slog.Error("Periodic sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker shutdown complete")
}
