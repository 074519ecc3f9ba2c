package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/bootstrap"
	"github.com/fhuszti/movies-ms-go/internal/config"
	workerHandler "github.com/fhuszti/movies-ms-go/internal/handler/worker"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/task"
	movieSvc "github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	strg, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise asset store: %v", err)
		os.Exit(1)
	}

	cleanupSvc := movieSvc.NewAssetCleaner(strg, bootstrap.MovieOptions(cfg))

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeAssetCleanup, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseAssetCleanupPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.AssetCleanupHandler(ctx, p, cleanupSvc)
	})

	runWorker(ctx, mux, cfg)
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     10,
		ShutdownTimeout: 30 * time.Second,
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, finish in-flight ones within ShutdownTimeout
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
