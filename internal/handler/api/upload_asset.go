package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

type uploadAssetRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required,moviemime"`
}

// UploadAssetHandler stores a single multipart "image" part and returns its public URL.
func UploadAssetHandler(svc port.AssetUploader, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeFormError(w, err)
			return
		}

		upload, file, err := formFile(r, string(port.RoleImage))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}
		if upload == nil {
			WriteError(w, http.StatusBadRequest, "image is required", nil)
			return
		}
		defer func() { _ = file.Close() }()

		if !writeValidationErrors(w, r, uploadAssetRequest{FileName: upload.FileName, ContentType: upload.ContentType}) {
			return
		}

		out, err := svc.UploadAsset(r.Context(), *upload)
		if err != nil {
			if errors.Is(err, movie.ErrValidation) {
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not upload file", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully uploaded %q to %s", upload.FileName, out.URL)
	}
}
