package movie

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type movieFinderSrv struct {
	repo    port.MovieRepository
	timeout time.Duration
}

func NewMovieFinder(repo port.MovieRepository, opts Options) port.MovieFinder {
	return &movieFinderSrv{repo: repo, timeout: opts.StoreTimeout}
}

// FindMovies returns every record whose normalized title equals the normalized form
// of title. No match is not an error here, callers decide.
func (s *movieFinderSrv) FindMovies(ctx context.Context, title string) ([]*model.Movie, error) {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	return findByNormalized(ctx, s.repo, s.timeout, normalized)
}
