package mock

import (
	"context"
	"io"

	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

// MovieLister implements port.MovieLister for tests.
type MovieLister struct {
	Out    []*model.Movie
	Err    error
	Called bool
}

func (m *MovieLister) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	m.Called = true
	return m.Out, m.Err
}

// MovieFinder implements port.MovieFinder for tests.
type MovieFinder struct {
	Out      []*model.Movie
	Err      error
	Called   bool
	GotTitle string
}

func (m *MovieFinder) FindMovies(ctx context.Context, title string) ([]*model.Movie, error) {
	m.Called = true
	m.GotTitle = title
	return m.Out, m.Err
}

// MovieCreator implements port.MovieCreator for tests. Asset bodies are drained
// into GotBodies so tests can assert on them after the request is gone.
type MovieCreator struct {
	Out       *model.Movie
	Err       error
	Called    bool
	GotInput  port.MovieInput
	GotAssets port.Assets
	GotBodies map[port.AssetRole]string
}

func (m *MovieCreator) CreateMovie(ctx context.Context, in port.MovieInput, assets port.Assets) (*model.Movie, error) {
	m.Called = true
	m.GotInput = in
	m.GotAssets = assets
	m.GotBodies = drain(assets)
	return m.Out, m.Err
}

// MovieUpdater implements port.MovieUpdater for tests.
type MovieUpdater struct {
	Out       port.UpdateMovieOutput
	Err       error
	Called    bool
	GotTitle  string
	GotPatch  port.MovieInput
	GotAssets port.Assets
	GotBodies map[port.AssetRole]string
}

func (m *MovieUpdater) UpdateMovie(ctx context.Context, title string, patch port.MovieInput, assets port.Assets) (port.UpdateMovieOutput, error) {
	m.Called = true
	m.GotTitle = title
	m.GotPatch = patch
	m.GotAssets = assets
	m.GotBodies = drain(assets)
	return m.Out, m.Err
}

// MovieDeleter implements port.MovieDeleter for tests.
type MovieDeleter struct {
	Out      port.DeleteMovieOutput
	Err      error
	Called   bool
	GotTitle string
}

func (m *MovieDeleter) DeleteMovie(ctx context.Context, title string) (port.DeleteMovieOutput, error) {
	m.Called = true
	m.GotTitle = title
	return m.Out, m.Err
}

// AssetUploader implements port.AssetUploader for tests.
type AssetUploader struct {
	Out     port.UploadAssetOutput
	Err     error
	Called  bool
	GotIn   port.AssetUpload
	GotBody string
}

func (m *AssetUploader) UploadAsset(ctx context.Context, in port.AssetUpload) (port.UploadAssetOutput, error) {
	m.Called = true
	m.GotIn = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		m.GotBody = string(b)
	}
	return m.Out, m.Err
}

// AssetCleaner implements port.AssetCleaner for tests.
type AssetCleaner struct {
	Err      error
	Called   bool
	GotPaths []string
}

func (m *AssetCleaner) CleanupAssets(ctx context.Context, paths []string) error {
	m.Called = true
	m.GotPaths = paths
	return m.Err
}

func drain(assets port.Assets) map[port.AssetRole]string {
	out := map[port.AssetRole]string{}
	for _, role := range []port.AssetRole{port.RoleImage, port.RoleVideo} {
		if a := assets.Get(role); a != nil && a.Body != nil {
			b, _ := io.ReadAll(a.Body)
			out[role] = string(b)
		}
	}
	return out
}
