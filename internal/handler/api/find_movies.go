package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/api_context"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

// FindMoviesHandler returns every movie whose normalized title matches the path title.
func FindMoviesHandler(renderer port.HTTPRenderer, svc port.MovieFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, ok := api_context.TitleFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "title is required", nil)
			return
		}

		raw, etag, err := renderer.RenderFindMovies(r.Context(), svc, title)
		if err != nil {
			switch {
			case errors.Is(err, movie.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Movie not found", nil)
			case errors.Is(err, movie.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
			default:
				WriteError(w, http.StatusBadRequest, "Could not find movie", err)
			}
			return
		}

		if respondCachedJSON(w, r, raw, etag) {
			logger.Infof(r.Context(), "✅  Returning cached movie %q", title)
			return
		}
		logger.Infof(r.Context(), "✅  Successfully returned movie %q", title)
	}
}
