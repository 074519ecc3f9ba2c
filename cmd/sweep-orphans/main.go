package main

import (
	"context"
	"os"

	"github.com/fhuszti/movies-ms-go/internal/bootstrap"
	"github.com/fhuszti/movies-ms-go/internal/config"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/task"
	movieSvc "github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}

	logger.Init()

	repo, closeRepo, err := bootstrap.OpenMovieRepository(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to open document store: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeRepo(ctx); err != nil {
			logger.Warnf(ctx, "Document store close error: %v", err)
		}
	}()

	strg, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise asset store: %v", err)
		os.Exit(1)
	}

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	defer func() { _ = dispatcher.Close() }()

	sweeper := movieSvc.NewOrphanSweeper(repo, strg, dispatcher, cfg.OrphanGracePeriod)
	n, err := sweeper.SweepOrphans(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Orphan sweep failed: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Orphan sweep completed, %d asset(s) queued for cleanup", n)
}
