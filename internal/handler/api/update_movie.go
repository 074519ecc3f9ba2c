package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/api_context"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

// UpdateMovieHandler merges the request document into the movie matching the
// path title. Fields left out of the request are kept.
func UpdateMovieHandler(svc port.MovieUpdater, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, ok := api_context.TitleFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "title is required", nil)
			return
		}

		form, err := parseMovieForm(w, r, maxUploadBytes)
		if err != nil {
			writeFormError(w, err)
			return
		}
		defer form.Close()

		req := moviePatchRequest{PrimaryTitle: form.Input.PrimaryTitle, Year: form.Input.Year}
		if !writeValidationErrors(w, r, req) {
			return
		}

		out, err := svc.UpdateMovie(r.Context(), title, form.Input, form.Assets)
		if err != nil {
			switch {
			case errors.Is(err, movie.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Movie not found", nil)
			case errors.Is(err, movie.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
			case errors.Is(err, movie.ErrConflict), errors.Is(err, movie.ErrAmbiguousTitle):
				WriteError(w, http.StatusConflict, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not update movie", err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, MessageResponse{Message: "Movie updated", Title: out.Title})
		logger.Infof(r.Context(), "✅  Successfully updated movie %q", out.Title)
	}
}
