package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type movieCreatorSrv struct {
	repo  port.MovieRepository
	strg  port.Storage
	tasks port.AssetCleanupDispatcher
	cache port.Cache
	opts  Options
}

func NewMovieCreator(repo port.MovieRepository, strg port.Storage, tasks port.AssetCleanupDispatcher, cache port.Cache, opts Options) port.MovieCreator {
	return &movieCreatorSrv{repo: repo, strg: strg, tasks: tasks, cache: cache, opts: opts}
}

// CreateMovie rejects duplicates before touching the asset store, uploads the
// provided assets concurrently and only then persists the record. Assets of a
// request that ends in error are removed again.
func (s *movieCreatorSrv) CreateMovie(ctx context.Context, in port.MovieInput, assets port.Assets) (*model.Movie, error) {
	title := strings.TrimSpace(in.PrimaryTitle)
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return nil, fmt.Errorf("%w: primaryTitle is required", ErrValidation)
	}
	if s.opts.RequireImage && assets.Image == nil {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	if s.opts.RequireVideo && assets.Video == nil {
		return nil, fmt.Errorf("%w: video is required", ErrValidation)
	}
	if err := validateAssets(assets); err != nil {
		return nil, err
	}
	if err := validateFields(in.Fields); err != nil {
		return nil, err
	}

	existing, err := findByNormalized(ctx, s.repo, s.opts.StoreTimeout, normalized)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrConflict, title)
	}

	namespace := newAssetNamespace()
	stored, err := uploadAssets(ctx, s.strg, s.opts.UploadTimeout, namespace, assets)
	if err != nil {
		compensate(ctx, s.strg, s.tasks, storedPaths(stored))
		return nil, err
	}

	m := &model.Movie{
		PrimaryTitle:    title,
		NormalizedTitle: normalized,
		Year:            in.Year,
		AssetNamespace:  namespace,
		Extra:           map[string]any{},
	}
	for k, v := range in.Fields {
		m.Extra[k] = v
	}
	if a, ok := stored[port.RoleImage]; ok {
		m.ImageURL = a.url
	}
	if a, ok := stored[port.RoleVideo]; ok {
		m.VideoURL = a.url
	}

	id, err := s.insert(ctx, m)
	if err != nil {
		compensate(ctx, s.strg, s.tasks, storedPaths(stored))
		if errors.Is(err, ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrConflict, title)
		}
		return nil, err
	}
	m.ID = id

	invalidate(ctx, s.cache, ListCacheKey, TitleCacheKey(normalized))
	logger.Infof(ctx, "created movie %q with id %s", title, id)
	return m, nil
}

func (s *movieCreatorSrv) insert(ctx context.Context, m *model.Movie) (string, error) {
	ctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	id, err := s.repo.Insert(ctx, m)
	return id, storeErr(err)
}
