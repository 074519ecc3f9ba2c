package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/fhuszti/movies-ms-go/internal/validation"
)

// CreateMovieHandler accepts a JSON document, or a multipart form with a "data"
// document plus optional "image" and "video" files, and answers with the stored record.
func CreateMovieHandler(svc port.MovieCreator, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseMovieForm(w, r, maxUploadBytes)
		if err != nil {
			writeFormError(w, err)
			return
		}
		defer form.Close()

		req := movieRequest{PrimaryTitle: form.Input.PrimaryTitle, Year: form.Input.Year}
		if !writeValidationErrors(w, r, req) {
			return
		}

		created, err := svc.CreateMovie(r.Context(), form.Input, form.Assets)
		if err != nil {
			switch {
			case errors.Is(err, movie.ErrConflict):
				WriteError(w, http.StatusConflict, "A movie with this title already exists", err)
			case errors.Is(err, movie.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
			case errors.Is(err, movie.ErrUpload):
				WriteError(w, http.StatusBadRequest, "Could not upload movie assets", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not create movie", err)
			}
			return
		}

		RespondJSON(w, http.StatusCreated, created)
		logger.Infof(r.Context(), "✅  Successfully created movie %q (#%s)", created.PrimaryTitle, created.ID)
	}
}

func writeFormError(w http.ResponseWriter, err error) {
	if isTooLarge(err) {
		WriteError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
		return
	}
	WriteError(w, http.StatusBadRequest, "invalid request payload", err)
}

// writeValidationErrors answers 400 with the failing fields and reports whether req is valid.
func writeValidationErrors(w http.ResponseWriter, r *http.Request, req any) bool {
	errs := validation.ValidateStruct(req)
	if errs == nil {
		return true
	}
	errsJSON, err := validation.ErrorsToJson(errs)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
		return false
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
	logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
	return false
}
