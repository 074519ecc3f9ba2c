package port

import (
	"context"
	"io"

	"github.com/fhuszti/movies-ms-go/internal/model"
)

// AssetRole names the slot an uploaded file fills on a movie.
type AssetRole string

const (
	RoleImage AssetRole = "image"
	RoleVideo AssetRole = "video"
)

// AssetUpload is one file attached to a create or update request.
type AssetUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Assets carries the optional image and video of a request.
type Assets struct {
	Image *AssetUpload
	Video *AssetUpload
}

// Get returns the upload for role, or nil.
func (a Assets) Get(role AssetRole) *AssetUpload {
	switch role {
	case RoleImage:
		return a.Image
	case RoleVideo:
		return a.Video
	}
	return nil
}

// MovieInput is the author-supplied part of a record.
type MovieInput struct {
	PrimaryTitle string
	Year         *int
	// Fields holds pass-through keys other than the title and year.
	Fields map[string]any
}

// MovieLister returns the whole collection.
type MovieLister interface {
	ListMovies(ctx context.Context) ([]*model.Movie, error)
}

// MovieFinder returns every record matching a normalized title.
type MovieFinder interface {
	FindMovies(ctx context.Context, title string) ([]*model.Movie, error)
}

// MovieCreator creates a record after the duplicate check and asset uploads.
type MovieCreator interface {
	CreateMovie(ctx context.Context, in MovieInput, assets Assets) (*model.Movie, error)
}

// MovieUpdater merges a patch into the record matching a title.
type MovieUpdater interface {
	UpdateMovie(ctx context.Context, title string, patch MovieInput, assets Assets) (UpdateMovieOutput, error)
}
type UpdateMovieOutput struct {
	Title string `json:"title"`
}

// MovieDeleter removes a record and releases its assets.
type MovieDeleter interface {
	DeleteMovie(ctx context.Context, title string) (DeleteMovieOutput, error)
}
type DeleteMovieOutput struct {
	Title string `json:"title"`
}

// AssetUploader stores a standalone file outside any movie namespace.
type AssetUploader interface {
	UploadAsset(ctx context.Context, in AssetUpload) (UploadAssetOutput, error)
}
type UploadAssetOutput struct {
	URL string `json:"url"`
}

// AssetCleaner deletes stored assets on behalf of the cleanup queue.
type AssetCleaner interface {
	CleanupAssets(ctx context.Context, paths []string) error
}

// OrphanSweeper finds asset namespaces no record owns and schedules their removal.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int, error)
}
