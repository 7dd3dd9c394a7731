package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wallet/internal/config"
	apphttp "wallet/internal/http"
	applog "wallet/internal/log"
	"wallet/internal/storage"
	"wallet/internal/wallet"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	var kv storage.KV
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		sqliteKV, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite storage", applog.FieldError, err.Error())
			os.Exit(1)
		}
		defer sqliteKV.Close()
		kv = sqliteKV
		logger.Info("Initialized sqlite storage", applog.FieldBackend, cfg.StorageBackend, "db_path", cfg.SQLiteDBPath)
	default:
		kv = storage.NewMemoryKV()
		logger.Info("Initialized memory storage", applog.FieldBackend, cfg.StorageBackend)
	}

	adapter := storage.NewAdapter(kv, logger.WithComponent(applog.ComponentStorage))
	store := wallet.New(adapter, logger.WithComponent(applog.ComponentStore), cfg.SaveQueueSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One-time Loading -> Ready transition; a failed read starts empty.
	store.Open(ctx)

	srv := apphttp.NewServer(":"+cfg.Port, store, logger.WithComponent(applog.ComponentHTTP))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return store.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Starting wallet server", "port", cfg.Port, applog.FieldBackend, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
