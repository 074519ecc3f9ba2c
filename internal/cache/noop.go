package cache

import (
	"context"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/port"
)

// NoopCache is used when no Redis is configured.
type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetMovies(ctx context.Context, key string) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagMovies(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (n *NoopCache) SetMovies(ctx context.Context, key string, data []byte, ttl time.Duration) {
}

func (n *NoopCache) SetEtagMovies(ctx context.Context, key string, etag string, ttl time.Duration) {
}

func (n *NoopCache) DeleteMovies(ctx context.Context, keys ...string) error { return nil }
