package port

import (
	"context"
	"io"
	"time"
)

// StoredObject describes one blob returned by a prefix listing.
type StoredObject struct {
	Path         string
	SizeBytes    int64
	LastModified time.Time
}

// Storage is the asset store contract.
type Storage interface {
	InitBucket(ctx context.Context) error
	// Upload writes the blob and returns its public URL. Nothing is stored on error.
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	ListByPrefix(ctx context.Context, prefix string) ([]StoredObject, error)
	PublicURL(path string) string
	// PathFromURL maps a public URL produced by PublicURL back to its stored path.
	PathFromURL(url string) (string, bool)
}
