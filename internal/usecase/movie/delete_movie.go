package movie

import (
	"context"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type movieDeleterSrv struct {
	repo  port.MovieRepository
	strg  port.Storage
	tasks port.AssetCleanupDispatcher
	cache port.Cache
	opts  Options
}

func NewMovieDeleter(repo port.MovieRepository, strg port.Storage, tasks port.AssetCleanupDispatcher, cache port.Cache, opts Options) port.MovieDeleter {
	return &movieDeleterSrv{repo: repo, strg: strg, tasks: tasks, cache: cache, opts: opts}
}

// DeleteMovie removes the record matching title, then schedules removal of every
// asset it owns. Asset failures are logged and never fail the request.
func (s *movieDeleterSrv) DeleteMovie(ctx context.Context, title string) (port.DeleteMovieOutput, error) {
	current, err := lookupOne(ctx, s.repo, s.opts.StoreTimeout, title)
	if err != nil {
		return port.DeleteMovieOutput{}, err
	}

	// enumerate first, the record is the only link to renamed assets
	owned := s.ownedAssets(ctx, current)

	if err := s.delete(ctx, current.ID); err != nil {
		return port.DeleteMovieOutput{}, err
	}
	scheduleCleanup(ctx, s.tasks, owned)

	invalidate(ctx, s.cache, ListCacheKey, TitleCacheKey(current.NormalizedTitle))
	logger.Infof(ctx, "deleted movie %q (id %s)", current.PrimaryTitle, current.ID)
	return port.DeleteMovieOutput{Title: current.PrimaryTitle}, nil
}

// ownedAssets lists the record's own namespace and adds the paths its URLs point
// at. Records without a namespace only own what they reference.
func (s *movieDeleterSrv) ownedAssets(ctx context.Context, m *model.Movie) []string {
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	if isMovieNamespace(m.AssetNamespace) {
		prefix := m.AssetNamespace + "/"
		lctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
		objects, err := s.strg.ListByPrefix(lctx, prefix)
		cancel()
		if err != nil {
			logger.Warnf(ctx, "failed to list assets under %q: %v", prefix, err)
		}
		for _, o := range objects {
			if strings.HasPrefix(o.Path, prefix) {
				add(o.Path)
			}
		}
	}
	for _, u := range []string{m.ImageURL, m.VideoURL} {
		if p, ok := s.strg.PathFromURL(u); ok {
			add(p)
		}
	}
	return paths
}

func (s *movieDeleterSrv) delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	return storeErr(s.repo.Delete(ctx, id))
}
