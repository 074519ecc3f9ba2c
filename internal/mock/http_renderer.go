package mock

import (
	"context"

	"github.com/fhuszti/movies-ms-go/internal/port"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	Data []byte
	Etag string
	Err  error

	ListCalled bool
	FindCalled bool
	GotTitle   string
}

func (m *HTTPRenderer) RenderListMovies(ctx context.Context, lister port.MovieLister) ([]byte, string, error) {
	m.ListCalled = true
	return m.Data, m.Etag, m.Err
}

func (m *HTTPRenderer) RenderFindMovies(ctx context.Context, finder port.MovieFinder, title string) ([]byte, string, error) {
	m.FindCalled = true
	m.GotTitle = title
	return m.Data, m.Etag, m.Err
}
