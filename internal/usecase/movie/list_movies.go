package movie

import (
	"context"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type movieListerSrv struct {
	repo    port.MovieRepository
	timeout time.Duration
}

func NewMovieLister(repo port.MovieRepository, opts Options) port.MovieLister {
	return &movieListerSrv{repo: repo, timeout: opts.StoreTimeout}
}

// ListMovies returns every record of the collection, possibly none.
func (s *movieListerSrv) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	movies, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return movies, nil
}
