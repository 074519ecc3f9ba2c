package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

type httpRenderer struct {
	cache port.Cache
	ttl   time.Duration
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer implementation whose cache entries
// live for ttl.
func NewHTTPRenderer(cache port.Cache, ttl time.Duration) port.HTTPRenderer {
	return &httpRenderer{cache: cache, ttl: ttl}
}

// RenderListMovies returns the whole collection as JSON with its quoted ETag.
func (r *httpRenderer) RenderListMovies(ctx context.Context, lister port.MovieLister) ([]byte, string, error) {
	return r.render(ctx, movie.ListCacheKey, func() ([]*model.Movie, error) {
		return lister.ListMovies(ctx)
	})
}

// RenderFindMovies returns every match of title as JSON with its quoted ETag.
func (r *httpRenderer) RenderFindMovies(ctx context.Context, finder port.MovieFinder, title string) ([]byte, string, error) {
	normalized := movie.NormalizeTitle(title)
	if normalized == "" {
		return nil, "", fmt.Errorf("%w: title is required", movie.ErrValidation)
	}
	return r.render(ctx, movie.TitleCacheKey(normalized), func() ([]*model.Movie, error) {
		return finder.FindMovies(ctx, title)
	})
}

func (r *httpRenderer) render(ctx context.Context, key string, load func() ([]*model.Movie, error)) ([]byte, string, error) {
	raw, err := r.cache.GetMovies(ctx, key)
	etag, errEtag := r.cache.GetEtagMovies(ctx, key)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}
	if err != nil || errEtag != nil {
		logger.Warnf(ctx, "cache read for %q failed, falling back to the store: %v", key, errorsOr(err, errEtag))
	}

	movies, err := load()
	if err != nil {
		return nil, "", err
	}
	if len(movies) == 0 {
		return nil, "", movie.ErrNotFound
	}

	raw, err = json.Marshal(movies)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	r.cache.SetMovies(ctx, key, raw, r.ttl)
	r.cache.SetEtagMovies(ctx, key, etag, r.ttl)

	return raw, etag, nil
}

func errorsOr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
