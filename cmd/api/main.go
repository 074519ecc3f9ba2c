package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/bootstrap"
	"github.com/fhuszti/movies-ms-go/internal/cache"
	"github.com/fhuszti/movies-ms-go/internal/config"
	"github.com/fhuszti/movies-ms-go/internal/handler/api"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/movies-ms-go/internal/middleware"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/renderer"
	"github.com/fhuszti/movies-ms-go/internal/task"
	movieSvc "github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v4"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	repo, closeRepo, err := bootstrap.OpenMovieRepository(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to open document store: %v", err)
		os.Exit(1)
	}

	strg, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise asset store: %v", err)
		os.Exit(1)
	}

	opts := bootstrap.MovieOptions(cfg)
	var ca port.Cache
	var dispatcher port.AssetCleanupDispatcher
	closers := []func() error{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		asynqDispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		ca, dispatcher = redisCache, asynqDispatcher
		closers = append(closers, redisCache.Close, asynqDispatcher.Close)
		logger.Info(ctx, "✅  Redis cache and cleanup queue enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewInlineDispatcher(movieSvc.NewAssetCleaner(strg, opts))
		logger.Warn(ctx, "⚠️  Redis not configured, caching is disabled and cleanups run inline")
	}

	r, stopAuth := initRouter(ctx, cfg)
	defer stopAuth()

	rendererSvc := renderer.NewHTTPRenderer(ca, cfg.CacheTTL)

	listSvc := movieSvc.NewMovieLister(repo, opts)
	r.Get("/peliculas", api.ListMoviesHandler(rendererSvc, listSvc))

	findSvc := movieSvc.NewMovieFinder(repo, opts)
	r.With(cMiddleware.WithTitle()).
		Get("/peliculas/{title}", api.FindMoviesHandler(rendererSvc, findSvc))

	createSvc := movieSvc.NewMovieCreator(repo, strg, dispatcher, ca, opts)
	r.Post("/peliculas", api.CreateMovieHandler(createSvc, cfg.MaxUploadSizeBytes))

	updateSvc := movieSvc.NewMovieUpdater(repo, strg, dispatcher, ca, opts)
	r.With(cMiddleware.WithTitle()).
		Put("/peliculas/{title}", api.UpdateMovieHandler(updateSvc, cfg.MaxUploadSizeBytes))

	deleteSvc := movieSvc.NewMovieDeleter(repo, strg, dispatcher, ca, opts)
	r.With(cMiddleware.WithTitle()).
		Delete("/peliculas/{title}", api.DeleteMovieHandler(deleteSvc))

	uploadSvc := movieSvc.NewAssetUploader(strg, opts)
	r.Post("/upload", api.UploadAssetHandler(uploadSvc, cfg.MaxUploadSizeBytes))

	listenRouter(ctx, r, cfg, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warnf(ctx, "Redis close error: %v", err)
			}
		}
		if err := closeRepo(ctx); err != nil {
			logger.Errorf(ctx, "Document store close error: %v", err)
		}
	})
}

func initRouter(ctx context.Context, cfg *config.Settings) (*chi.Mux, func()) {
	logger.Info(ctx, "initialising router...")

	authCfg := cMiddleware.AuthConfig{
		PublicKeyPEM: cfg.JWTPublicKey,
		JWKSURL:      cfg.JWKSURL,
		Issuer:       cfg.JWTIssuer,
		Audience:     cfg.JWTAudience,
	}
	keyFunc, stop := initAuth(ctx, authCfg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithJWTAuth(keyFunc, authCfg.Issuer, authCfg.Audience))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r, stop
}

func initAuth(ctx context.Context, authCfg cMiddleware.AuthConfig) (jwt.Keyfunc, func()) {
	if !authCfg.Enabled() {
		logger.Warn(ctx, "⚠️  No JWT key configured, authentication is disabled")
		return nil, func() {}
	}
	keyFunc, stop, err := cMiddleware.NewKeyfunc(authCfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise token verification: %v", err)
		os.Exit(1)
	}
	return keyFunc, stop
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, closeStores func()) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	closeStores()
}
