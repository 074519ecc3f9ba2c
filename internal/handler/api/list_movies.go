package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

func ListMoviesHandler(renderer port.HTTPRenderer, svc port.MovieLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, etag, err := renderer.RenderListMovies(r.Context(), svc)
		if err != nil {
			if errors.Is(err, movie.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "No movies found", nil)
				return
			}
			WriteError(w, http.StatusBadRequest, "Could not list movies", err)
			return
		}

		if respondCachedJSON(w, r, raw, etag) {
			logger.Info(r.Context(), "✅  Returning cached movie list")
			return
		}
		logger.Info(r.Context(), "✅  Successfully returned movie list")
	}
}
