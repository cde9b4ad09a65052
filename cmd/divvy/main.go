package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"divvy/internal/config"
	"divvy/internal/event"
	apphttp "divvy/internal/http"
	applog "divvy/internal/log"
	"divvy/internal/persist"
	filestore "divvy/internal/persist/file"
	memstore "divvy/internal/persist/memory"
	sqlitestore "divvy/internal/persist/sqlite"
	"divvy/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	applog.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose the persistence backend
	var backend persist.Store
	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlitestore.New(cfg.SQLiteDBPath)
		if err != nil {
			slog.Error("Failed to initialize sqlite backend", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer s.Close()
		backend = s
	case "memory":
		backend = memstore.New()
	default:
		s, err := filestore.New(cfg.DataDir)
		if err != nil {
			slog.Error("Failed to initialize file backend", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		backend = s
	}
	slog.Info("Initialized persistence backend", "backend", cfg.DataBackend)

	// Optional change eventing; absent AMQP config disables it
	var amqpClient *event.Client
	if cfg.AMQPURL != "" {
		c, err := event.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		amqpClient = c
		backend = persist.WithNotify(backend, amqpClient)
		slog.Info("Change eventing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("Change eventing disabled - no AMQP_URL provided")
	}

	ctx := context.Background()

	users, err := store.NewUserDirectory(ctx, backend)
	if err != nil {
		slog.Error("Failed to load user directory", "error", err)
		os.Exit(1)
	}
	groups, err := store.NewGroupRegistry(ctx, backend)
	if err != nil {
		slog.Error("Failed to load group registry", "error", err)
		os.Exit(1)
	}
	expenses, err := store.NewExpenseLedger(ctx, backend)
	if err != nil {
		slog.Error("Failed to load expense ledger", "error", err)
		os.Exit(1)
	}

	// First run: provision a default user and designate it current
	if _, ok := users.CurrentUser(); !ok && len(users.ListUsers()) == 0 {
		u, err := users.AddUser(ctx, cfg.DefaultUserName, cfg.DefaultUserEmail, "")
		if err != nil {
			slog.Error("Failed to provision default user", "error", err)
			os.Exit(1)
		}
		if err := users.SetCurrentUser(ctx, &u); err != nil {
			slog.Error("Failed to designate default user", "error", err)
			os.Exit(1)
		}
		slog.Info("Provisioned default user", "user_id", u.ID, "name", u.Name)
	}

	srv := apphttp.NewServer(":"+cfg.Port, users, groups, expenses, cfg.StrictExpenses)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting divvy server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"strict_expenses", cfg.StrictExpenses)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-runCtx.Done()
	slog.Info("Server stopped gracefully")
}
