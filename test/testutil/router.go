package testutil

import (
	"net/http"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/cache"
	"github.com/fhuszti/movies-ms-go/internal/handler/api"
	cMiddleware "github.com/fhuszti/movies-ms-go/internal/middleware"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/renderer"
	"github.com/fhuszti/movies-ms-go/internal/task"
	movieSvc "github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/go-chi/chi/v5"
)

const MaxUploadBytes = 5 << 20

// NewRouter wires the peliculas routes the way cmd/api does, without auth, with
// cleanups running inline and caching disabled.
func NewRouter(repo port.MovieRepository, strg port.Storage) http.Handler {
	opts := movieSvc.Options{StoreTimeout: 5 * time.Second, UploadTimeout: 30 * time.Second}
	ca := cache.NewNoop()
	dispatcher := task.NewInlineDispatcher(movieSvc.NewAssetCleaner(strg, opts))
	rendererSvc := renderer.NewHTTPRenderer(ca, time.Minute)

	r := chi.NewRouter()
	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/peliculas", api.ListMoviesHandler(rendererSvc, movieSvc.NewMovieLister(repo, opts)))
	r.With(cMiddleware.WithTitle()).
		Get("/peliculas/{title}", api.FindMoviesHandler(rendererSvc, movieSvc.NewMovieFinder(repo, opts)))
	r.Post("/peliculas", api.CreateMovieHandler(movieSvc.NewMovieCreator(repo, strg, dispatcher, ca, opts), MaxUploadBytes))
	r.With(cMiddleware.WithTitle()).
		Put("/peliculas/{title}", api.UpdateMovieHandler(movieSvc.NewMovieUpdater(repo, strg, dispatcher, ca, opts), MaxUploadBytes))
	r.With(cMiddleware.WithTitle()).
		Delete("/peliculas/{title}", api.DeleteMovieHandler(movieSvc.NewMovieDeleter(repo, strg, dispatcher, ca, opts)))
	r.Post("/upload", api.UploadAssetHandler(movieSvc.NewAssetUploader(strg, opts), MaxUploadBytes))
	return r
}
