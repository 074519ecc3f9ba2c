package movie

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/port"
)

type assetUploaderSrv struct {
	strg    port.Storage
	timeout time.Duration
}

func NewAssetUploader(strg port.Storage, opts Options) port.AssetUploader {
	return &assetUploaderSrv{strg: strg, timeout: opts.UploadTimeout}
}

// UploadAsset stores a single image outside any movie namespace and returns its URL.
func (s *assetUploaderSrv) UploadAsset(ctx context.Context, in port.AssetUpload) (port.UploadAssetOutput, error) {
	if in.Body == nil {
		return port.UploadAssetOutput{}, fmt.Errorf("%w: image is required", ErrValidation)
	}
	if !IsMimeTypeAllowedForRole(port.RoleImage, in.ContentType) {
		return port.UploadAssetOutput{}, fmt.Errorf("%w: unsupported mime-type %q", ErrValidation, in.ContentType)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	p := assetPath(StandaloneNamespace, in.FileName)
	url, err := s.strg.Upload(ctx, p, in.Body, in.SizeBytes, in.ContentType)
	if err != nil {
		return port.UploadAssetOutput{}, fmt.Errorf("%w: %q: %v", ErrUpload, p, err)
	}
	return port.UploadAssetOutput{URL: url}, nil
}
