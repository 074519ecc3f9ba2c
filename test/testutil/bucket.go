package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/storage"
	"github.com/minio/minio-go/v7"
)

var bucketSeq atomic.Int64

type TestBucket struct {
	Name    string
	Strg    *storage.MinioStorage
	Cleanup func() error
}

// SetupTestBucket creates a fresh public-read bucket wrapped in the asset store adapter.
func SetupTestBucket(client *minio.Client) (*TestBucket, error) {
	ctx := context.Background()
	name := fmt.Sprintf("peliculas-%d-%d", time.Now().Unix(), bucketSeq.Add(1))

	strg := storage.NewMinioStorage(client, name, "")
	if err := strg.InitBucket(ctx); err != nil {
		return nil, fmt.Errorf("could not create bucket %q: %w", name, err)
	}

	cleanup := func() error {
		for obj := range client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, name); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", name, err)
		}
		return nil
	}

	return &TestBucket{Name: name, Strg: strg, Cleanup: cleanup}, nil
}

// ObjectKeys lists every object in the bucket.
func ObjectKeys(client *minio.Client, bucket string) ([]string, error) {
	var keys []string
	for obj := range client.ListObjects(context.Background(), bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
