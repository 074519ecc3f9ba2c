package mock

import (
	"context"
	"time"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	MoviesOut []byte

	// etag values
	EtagMovies string

	// captured inputs
	GotKey     string
	GotTTL     time.Duration
	DeletedKey []string

	// errors
	GetMoviesErr     error
	GetEtagMoviesErr error
	DelMoviesErr     error

	// call flags
	GetMoviesCalled     bool
	GetEtagMoviesCalled bool
	SetMoviesCalled     bool
	SetEtagMoviesCalled bool
	DelMoviesCalled     bool
}

func (c *Cache) GetMovies(ctx context.Context, key string) ([]byte, error) {
	c.GetMoviesCalled = true
	c.GotKey = key
	if c.GetMoviesErr != nil {
		return nil, c.GetMoviesErr
	}
	return c.MoviesOut, nil
}

func (c *Cache) GetEtagMovies(ctx context.Context, key string) (string, error) {
	c.GetEtagMoviesCalled = true
	if c.GetEtagMoviesErr != nil {
		return "", c.GetEtagMoviesErr
	}
	return c.EtagMovies, nil
}

func (c *Cache) SetMovies(ctx context.Context, key string, data []byte, ttl time.Duration) {
	c.SetMoviesCalled = true
	c.GotKey = key
	c.GotTTL = ttl
	c.MoviesOut = data
}

func (c *Cache) SetEtagMovies(ctx context.Context, key string, etag string, ttl time.Duration) {
	c.SetEtagMoviesCalled = true
	c.EtagMovies = etag
}

func (c *Cache) DeleteMovies(ctx context.Context, keys ...string) error {
	c.DelMoviesCalled = true
	c.DeletedKey = append(c.DeletedKey, keys...)
	return c.DelMoviesErr
}
