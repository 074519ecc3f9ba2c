package testutil

import (
	"context"

	workerHandler "github.com/fhuszti/movies-ms-go/internal/handler/worker"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/task"
	movieSvc "github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/hibiken/asynq"
)

// StartCleanupWorker starts an asynq worker processing asset cleanup tasks.
// It returns a function to gracefully shut down the worker.
func StartCleanupWorker(strg port.Storage, redisAddr string) func() {
	cleanupSvc := movieSvc.NewAssetCleaner(strg, movieSvc.Options{})

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeAssetCleanup, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseAssetCleanupPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.AssetCleanupHandler(ctx, p, cleanupSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
