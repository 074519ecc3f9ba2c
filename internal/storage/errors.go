package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return movie.ErrObjectNotFound
	case "NoSuchBucket":
		return movie.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return movie.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", movie.ErrInternal, err)
	}
}
