package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kmci-church/cms/internal/api"
	"github.com/kmci-church/cms/internal/config"
	"github.com/kmci-church/cms/internal/database"
	"github.com/kmci-church/cms/internal/feed"
	"github.com/kmci-church/cms/internal/kvstore"
	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	log := setupLogger("info")
	slog.SetDefault(log)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	log = setupLogger(cfg.LogLevel)
	slog.SetDefault(log)

	kvOpts := []kvstore.Option{kvstore.WithLogger(log)}
	if cfg.Storage.Namespace != "" {
		kvOpts = append(kvOpts, kvstore.WithNamespace(cfg.Storage.Namespace))
	}
	if cfg.Storage.QuotaBytes > 0 {
		kvOpts = append(kvOpts, kvstore.WithQuota(cfg.Storage.QuotaBytes))
	}
	kv := kvstore.New(cfg.Storage.Dir, kvOpts...)
	logger.Init(kv, log)

	db, err := openDatabase(cfg, kv)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("storage ready", "backend", db.BackendType())

	apiOpts := []api.Option{api.WithImporter(feed.NewImporter())}
	if cfg.API.Latency > 0 {
		apiOpts = append(apiOpts, api.WithLatency(time.Duration(cfg.API.Latency)))
	}
	facade := api.New(db, apiOpts...)

	if cfg.Seed {
		if err := facade.Seed(context.Background()); err != nil {
			log.Error("failed to seed default content", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Server.AdminToken == "" {
		log.Warn("no admin token configured, admin API disabled")
	}
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(facade, cfg.Server.AdminToken).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

func openDatabase(cfg *config.Config, kv *kvstore.Store) (*database.DB, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		store, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return database.New(store), nil
	case "fallback":
		return database.New(database.NewFallback(kv)), nil
	default:
		_ = os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755)
		return database.Open(cfg.Storage.SQLitePath, kv), nil
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
