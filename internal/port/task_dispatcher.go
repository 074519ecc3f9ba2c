package port

import "context"

// AssetCleanupDispatcher schedules best-effort removal of stored assets.
type AssetCleanupDispatcher interface {
	EnqueueAssetCleanup(ctx context.Context, paths []string) error
}
