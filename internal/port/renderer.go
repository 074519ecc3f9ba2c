package port

import "context"

// HTTPRenderer mediates between HTTP handlers and the read use cases.
// It returns the JSON representation of the result together with an ETag,
// serving from cache when possible. Empty results are reported as not found
// and never cached.
type HTTPRenderer interface {
	RenderListMovies(ctx context.Context, lister MovieLister) ([]byte, string, error)
	RenderFindMovies(ctx context.Context, finder MovieFinder, title string) ([]byte, string, error)
}
