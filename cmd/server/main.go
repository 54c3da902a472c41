package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adpulse/adpulse-go/internal/config"
	"github.com/adpulse/adpulse-go/internal/httpx"
	"github.com/adpulse/adpulse-go/internal/metrics"
	"github.com/adpulse/adpulse-go/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var st store.UploadStore
	if cfg.DBPath != "" {
		sq, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			logger.Error("open store", slog.String("path", cfg.DBPath), slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer sq.Close()
		st = sq
	} else {
		st = store.NewMemoryStore()
	}

	cache := metrics.NewCache()
	r := httpx.NewRouter(logger, st, cache, cfg.DefaultTenant)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTPTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
