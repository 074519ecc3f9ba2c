package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/task"
	"github.com/hibiken/asynq"
)

// AssetCleanupHandler handles an asset-cleanup task.
// It hands the payload paths to the cleaner; a returned error makes Asynq retry.
func AssetCleanupHandler(ctx context.Context, p task.AssetCleanupPayload, svc port.AssetCleaner) error {
	if len(p.Paths) == 0 {
		logger.Warn(ctx, "❌  Asset cleanup task without paths, dropping it")
		return fmt.Errorf("empty asset cleanup payload: %w", asynq.SkipRetry)
	}

	if err := svc.CleanupAssets(ctx, p.Paths); err != nil {
		logger.Errorf(ctx, "❌  Failed to clean up assets %v: %v", p.Paths, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully cleaned up %d asset(s)", len(p.Paths))
	return nil
}

