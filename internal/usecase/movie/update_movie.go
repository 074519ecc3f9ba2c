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

type movieUpdaterSrv struct {
	repo  port.MovieRepository
	strg  port.Storage
	tasks port.AssetCleanupDispatcher
	cache port.Cache
	opts  Options
}

func NewMovieUpdater(repo port.MovieRepository, strg port.Storage, tasks port.AssetCleanupDispatcher, cache port.Cache, opts Options) port.MovieUpdater {
	return &movieUpdaterSrv{repo: repo, strg: strg, tasks: tasks, cache: cache, opts: opts}
}

// UpdateMovie merges patch into the record matching title. New assets are stored
// under the record's current namespace, and the assets they replace are released
// only once the record points at the new ones.
func (s *movieUpdaterSrv) UpdateMovie(ctx context.Context, title string, patch port.MovieInput, assets port.Assets) (port.UpdateMovieOutput, error) {
	current, err := lookupOne(ctx, s.repo, s.opts.StoreTimeout, title)
	if err != nil {
		return port.UpdateMovieOutput{}, err
	}

	fields, err := s.buildFields(ctx, current, patch)
	if err != nil {
		return port.UpdateMovieOutput{}, err
	}
	if err := validateAssets(assets); err != nil {
		return port.UpdateMovieOutput{}, err
	}
	if len(fields) == 0 && assets.Image == nil && assets.Video == nil {
		return port.UpdateMovieOutput{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	namespace := current.AssetNamespace
	if !isMovieNamespace(namespace) && (assets.Image != nil || assets.Video != nil) {
		// records written before namespaces existed get one on their first new asset
		namespace = newAssetNamespace()
		fields[model.FieldAssetNamespace] = namespace
	}

	stored, err := uploadAssets(ctx, s.strg, s.opts.UploadTimeout, namespace, assets)
	if err != nil {
		compensate(ctx, s.strg, s.tasks, unreferenced(s.strg, current, storedPaths(stored)))
		return port.UpdateMovieOutput{}, err
	}

	var replaced []string
	for role, a := range stored {
		previous := current.ImageURL
		field := model.FieldImageURL
		if role == port.RoleVideo {
			previous = current.VideoURL
			field = model.FieldVideoURL
		}
		fields[field] = a.url
		if old, ok := s.strg.PathFromURL(previous); ok && old != a.path {
			replaced = append(replaced, old)
		}
	}

	if err := s.persist(ctx, current.ID, fields); err != nil {
		compensate(ctx, s.strg, s.tasks, unreferenced(s.strg, current, storedPaths(stored)))
		if errors.Is(err, ErrDuplicate) {
			return port.UpdateMovieOutput{}, fmt.Errorf("%w: %q", ErrConflict, fields[model.FieldPrimaryTitle])
		}
		return port.UpdateMovieOutput{}, err
	}

	scheduleCleanup(ctx, s.tasks, replaced)

	keys := []string{ListCacheKey, TitleCacheKey(current.NormalizedTitle)}
	if n, ok := fields[model.FieldNormalizedTitle].(string); ok && n != current.NormalizedTitle {
		keys = append(keys, TitleCacheKey(n))
	}
	invalidate(ctx, s.cache, keys...)

	display := current.PrimaryTitle
	if t, ok := fields[model.FieldPrimaryTitle].(string); ok {
		display = t
	}
	logger.Infof(ctx, "updated movie %q (id %s)", display, current.ID)
	return port.UpdateMovieOutput{Title: display}, nil
}

// buildFields turns patch into the partial document to persist. A title change is
// checked against the other records first.
func (s *movieUpdaterSrv) buildFields(ctx context.Context, current *model.Movie, patch port.MovieInput) (map[string]any, error) {
	fields := make(map[string]any, len(patch.Fields)+3)
	for k, v := range patch.Fields {
		switch k {
		case model.FieldID, model.FieldNormalizedTitle, model.FieldImageURL, model.FieldVideoURL, model.FieldPrimaryTitle, model.FieldYear, model.FieldAssetNamespace:
			continue
		}
		fields[k] = v
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	if patch.Year != nil {
		fields[model.FieldYear] = *patch.Year
	}

	if patch.PrimaryTitle == "" {
		return fields, nil
	}
	title := strings.TrimSpace(patch.PrimaryTitle)
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return nil, fmt.Errorf("%w: primaryTitle must not be blank", ErrValidation)
	}
	if normalized != current.NormalizedTitle {
		others, err := findByNormalized(ctx, s.repo, s.opts.StoreTimeout, normalized)
		if err != nil {
			return nil, err
		}
		for _, o := range others {
			if o.ID != current.ID {
				return nil, fmt.Errorf("%w: %q", ErrConflict, title)
			}
		}
	}
	fields[model.FieldPrimaryTitle] = title
	fields[model.FieldNormalizedTitle] = normalized
	return fields, nil
}

func (s *movieUpdaterSrv) persist(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	return storeErr(s.repo.UpdateFields(ctx, id, fields))
}
