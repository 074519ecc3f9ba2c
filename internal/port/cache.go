package port

import (
	"context"
	"time"
)

// Cache stores rendered JSON responses and their ETags, keyed by normalized title
// (or the list key).
type Cache interface {
	GetMovies(ctx context.Context, key string) ([]byte, error)
	GetEtagMovies(ctx context.Context, key string) (string, error)
	SetMovies(ctx context.Context, key string, data []byte, ttl time.Duration)
	SetEtagMovies(ctx context.Context, key string, etag string, ttl time.Duration)
	// DeleteMovies drops both the payload and the ETag for each key.
	DeleteMovies(ctx context.Context, keys ...string) error
}
