package movie

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("a movie with this title already exists")
	ErrAmbiguousTitle   = errors.New("title matches more than one movie")
	ErrNotFound         = errors.New("movie not found")
	ErrUpload           = errors.New("asset upload failed")
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// Errors reported by the store adapters.
var (
	ErrDuplicate      = errors.New("store: duplicate key")
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)
