package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/api_context"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

func DeleteMovieHandler(svc port.MovieDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, ok := api_context.TitleFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "title is required", nil)
			return
		}

		out, err := svc.DeleteMovie(r.Context(), title)
		if err != nil {
			switch {
			case errors.Is(err, movie.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Movie not found", nil)
			case errors.Is(err, movie.ErrAmbiguousTitle):
				WriteError(w, http.StatusConflict, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not delete movie", err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, MessageResponse{Message: "Movie deleted", Title: out.Title})
		logger.Infof(r.Context(), "✅  Successfully deleted movie %q", out.Title)
	}
}
