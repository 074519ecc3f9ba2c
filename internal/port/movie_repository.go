package port

import (
	"context"

	"github.com/fhuszti/movies-ms-go/internal/model"
)

// MovieRepository is the document store contract for the peliculas collection.
type MovieRepository interface {
	// Insert stores the record and returns the store-assigned id.
	Insert(ctx context.Context, movie *model.Movie) (string, error)
	// QueryEquals returns every record whose field equals value, possibly none.
	QueryEquals(ctx context.Context, field, value string) ([]*model.Movie, error)
	// UpdateFields applies a partial update, leaving unlisted fields untouched.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*model.Movie, error)
}
