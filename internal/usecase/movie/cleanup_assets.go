package movie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type assetCleanerSrv struct {
	strg    port.Storage
	timeout time.Duration
}

func NewAssetCleaner(strg port.Storage, opts Options) port.AssetCleaner {
	return &assetCleanerSrv{strg: strg, timeout: opts.StoreTimeout}
}

// CleanupAssets deletes every path, treating already-missing objects as done. The
// returned error joins the failures so the caller can retry them.
func (s *assetCleanerSrv) CleanupAssets(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := s.remove(ctx, p); err != nil {
			if errors.Is(err, ErrObjectNotFound) {
				logger.Debugf(ctx, "asset %q already gone", p)
				continue
			}
			errs = append(errs, fmt.Errorf("delete %q: %w", p, err))
			continue
		}
		logger.Infof(ctx, "deleted asset %q", p)
	}
	return errors.Join(errs...)
}

func (s *assetCleanerSrv) remove(ctx context.Context, p string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.strg.Delete(ctx, p)
}
