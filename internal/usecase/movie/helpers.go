package movie

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/uuid"
	"golang.org/x/sync/errgroup"
)

var assetRoles = []port.AssetRole{port.RoleImage, port.RoleVideo}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// storeErr surfaces timeouts as ErrStoreUnavailable and leaves mapped errors alone.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

func findByNormalized(ctx context.Context, repo port.MovieRepository, timeout time.Duration, normalized string) ([]*model.Movie, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	movies, err := repo.QueryEquals(ctx, model.FieldNormalizedTitle, normalized)
	if err != nil {
		return nil, storeErr(err)
	}
	return movies, nil
}

// lookupOne resolves title to exactly one record. More than one match is reported,
// never resolved by picking one.
func lookupOne(ctx context.Context, repo port.MovieRepository, timeout time.Duration, title string) (*model.Movie, error) {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	movies, err := findByNormalized(ctx, repo, timeout, normalized)
	if err != nil {
		return nil, err
	}
	switch len(movies) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	case 1:
		return movies[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d records", ErrAmbiguousTitle, title, len(movies))
	}
}

func validateAssets(assets port.Assets) error {
	for _, role := range assetRoles {
		a := assets.Get(role)
		if a == nil {
			continue
		}
		if a.Body == nil {
			return fmt.Errorf("%w: %s has no content", ErrValidation, role)
		}
		if !IsMimeTypeAllowedForRole(role, a.ContentType) {
			return fmt.Errorf("%w: unsupported mime-type %q for %s", ErrValidation, a.ContentType, role)
		}
	}
	return nil
}

// newAssetNamespace returns a fresh prefix for a record's assets. Namespaces never
// derive from the title, so renames and look-alike titles cannot share one.
func newAssetNamespace() string {
	return MovieAssetsPrefix + uuid.NewUUID().String()
}

// isMovieNamespace reports whether ns is a namespace handed out by newAssetNamespace.
func isMovieNamespace(ns string) bool {
	rest, ok := strings.CutPrefix(ns, MovieAssetsPrefix)
	return ok && rest != "" && !strings.Contains(rest, "/")
}

// assetPath gives every upload its own object so a new file never overwrites one
// a record still points at.
func assetPath(namespace, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return namespace + "/" + uuid.NewUUID().String() + "-" + base
}

// validateFields rejects pass-through keys a document store would not keep verbatim.
func validateFields(fields map[string]any) error {
	for k := range fields {
		if !model.IsStorableKey(k) {
			return fmt.Errorf("%w: field name %q is not allowed", ErrValidation, k)
		}
	}
	return nil
}

type storedAsset struct {
	path string
	url  string
}

// uploadAssets stores every provided asset concurrently. On failure it returns the
// assets that did make it so the caller can compensate.
func uploadAssets(ctx context.Context, strg port.Storage, timeout time.Duration, namespace string, assets port.Assets) (map[port.AssetRole]storedAsset, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	results := make([]*storedAsset, len(assetRoles))
	g, gctx := errgroup.WithContext(ctx)
	for i, role := range assetRoles {
		a := assets.Get(role)
		if a == nil {
			continue
		}
		g.Go(func() error {
			p := assetPath(namespace, a.FileName)
			url, err := strg.Upload(gctx, p, a.Body, a.SizeBytes, a.ContentType)
			if err != nil {
				return fmt.Errorf("%w: %s %q: %v", ErrUpload, role, p, err)
			}
			results[i] = &storedAsset{path: p, url: url}
			return nil
		})
	}
	err := g.Wait()

	stored := make(map[port.AssetRole]storedAsset, len(assetRoles))
	for i, role := range assetRoles {
		if results[i] != nil {
			stored[role] = *results[i]
		}
	}
	return stored, err
}

func storedPaths(stored map[port.AssetRole]storedAsset) []string {
	paths := make([]string, 0, len(stored))
	for _, role := range assetRoles {
		if s, ok := stored[role]; ok {
			paths = append(paths, s.path)
		}
	}
	return paths
}

// unreferenced drops the paths m still points at.
func unreferenced(strg port.Storage, m *model.Movie, paths []string) []string {
	live := map[string]bool{}
	for _, u := range []string{m.ImageURL, m.VideoURL} {
		if p, ok := strg.PathFromURL(u); ok {
			live[p] = true
		}
	}
	var out []string
	for _, p := range paths {
		if !live[p] {
			out = append(out, p)
		}
	}
	return out
}

// compensate removes assets uploaded by a request that did not complete. Anything
// that cannot be removed right away is handed to the cleanup queue.
func compensate(ctx context.Context, strg port.Storage, tasks port.AssetCleanupDispatcher, paths []string) {
	if len(paths) == 0 {
		return
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)

	var left []string
	for _, p := range paths {
		if err := strg.Delete(ctx, p); err != nil && !errors.Is(err, ErrObjectNotFound) {
			logger.Warnf(ctx, "failed to remove orphaned asset %q: %v", p, err)
			left = append(left, p)
		}
	}
	scheduleCleanup(ctx, tasks, left)
}

func scheduleCleanup(ctx context.Context, tasks port.AssetCleanupDispatcher, paths []string) {
	if len(paths) == 0 {
		return
	}
	// the record change is committed, a client hanging up must not lose the cleanup
	ctx = context.WithoutCancel(ctx)
	if err := tasks.EnqueueAssetCleanup(ctx, paths); err != nil {
		logger.Errorf(ctx, "failed to schedule cleanup of %d asset(s) %v: %v", len(paths), paths, err)
	}
}

func invalidate(ctx context.Context, cache port.Cache, keys ...string) {
	if err := cache.DeleteMovies(ctx, keys...); err != nil {
		logger.Warnf(ctx, "failed to invalidate cache for %v: %v", keys, err)
	}
}
