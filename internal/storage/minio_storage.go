package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

type MinioStorage struct {
	client     minioClient
	bucketName string
	publicBase string
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	logger.Info(context.Background(), "initialising minio client", "endpoint", endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return client, nil
}

// NewMinioStorage binds client to bucket. Public URLs are built from publicBaseURL
// when set, otherwise from the client endpoint and the bucket name.
func NewMinioStorage(client minioClient, bucket, publicBaseURL string) *MinioStorage {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + bucket
	}
	return &MinioStorage{client: client, bucketName: bucket, publicBase: base}
}

// InitBucket creates the bucket when missing and makes its objects publicly readable.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucketName)
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, fmt.Sprintf(publicReadPolicy, s.bucketName)); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error) {
	logger.Debugf(ctx, "uploading file %q into bucket %q...", path, s.bucketName)

	_, err := s.client.PutObject(ctx, s.bucketName, path, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return s.PublicURL(path), nil
}

func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	logger.Debugf(ctx, "removing file %q from bucket %q...", path, s.bucketName)

	return mapMinioErr(s.client.RemoveObject(ctx, s.bucketName, path, minio.RemoveObjectOptions{}))
}

func (s *MinioStorage) ListByPrefix(ctx context.Context, prefix string) ([]port.StoredObject, error) {
	logger.Debugf(ctx, "listing files under %q in bucket %q...", prefix, s.bucketName)

	var out []port.StoredObject
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, mapMinioErr(obj.Err)
		}
		out = append(out, port.StoredObject{Path: obj.Key, SizeBytes: obj.Size, LastModified: obj.LastModified})
	}
	return out, nil
}

func (s *MinioStorage) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + strings.Join(segments, "/")
}

func (s *MinioStorage) PathFromURL(rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(rawURL, s.publicBase+"/")
	if !ok || rest == "" {
		return "", false
	}
	p, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return p, true
}
