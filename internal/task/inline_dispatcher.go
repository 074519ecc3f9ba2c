package task

import (
	"context"

	"github.com/fhuszti/movies-ms-go/internal/port"
)

// InlineDispatcher runs cleanups in the calling goroutine. It stands in for the
// queue when no Redis is configured.
type InlineDispatcher struct {
	cleaner port.AssetCleaner
}

var _ port.AssetCleanupDispatcher = (*InlineDispatcher)(nil)

func NewInlineDispatcher(cleaner port.AssetCleaner) *InlineDispatcher {
	return &InlineDispatcher{cleaner: cleaner}
}

func (d *InlineDispatcher) EnqueueAssetCleanup(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	// the request may be gone by now, the cleanup is still wanted
	return d.cleaner.CleanupAssets(context.WithoutCancel(ctx), paths)
}
