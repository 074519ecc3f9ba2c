// Package bootstrap opens the stores shared by the api, worker and sweep binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/fhuszti/movies-ms-go/internal/config"
	"github.com/fhuszti/movies-ms-go/internal/db"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/movies-ms-go/internal/repository/mongodb"
	"github.com/fhuszti/movies-ms-go/internal/storage"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

// CloseFunc releases a store connection.
type CloseFunc func(ctx context.Context) error

// MariaDBConfig extracts the connection pool settings.
func MariaDBConfig(cfg *config.Settings) db.MariaDbConfig {
	return db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		PingTimeout:     cfg.StoreTimeout,
	}
}

// MovieOptions extracts the use case settings.
func MovieOptions(cfg *config.Settings) movie.Options {
	return movie.Options{
		RequireImage:  cfg.RequireImage,
		RequireVideo:  cfg.RequireVideo,
		StoreTimeout:  cfg.StoreTimeout,
		UploadTimeout: cfg.UploadTimeout,
	}
}

// OpenMovieRepository connects the configured document store.
func OpenMovieRepository(ctx context.Context, cfg *config.Settings) (port.MovieRepository, CloseFunc, error) {
	switch cfg.DocumentStore {
	case config.DocumentStoreMariaDB:
		logger.Info(ctx, "initialising database...")
		database, err := db.New(ctx, MariaDBConfig(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mariadb: %w", err)
		}
		return mariadb.NewMovieRepository(database.DB), func(context.Context) error {
			return database.Close()
		}, nil

	case config.DocumentStoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		if err := mongodb.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return mongodb.NewMovieRepository(coll), client.Disconnect, nil
	}
	return nil, nil, fmt.Errorf("document store %q is not supported", cfg.DocumentStore)
}

// OpenStorage connects MinIO and makes sure the asset bucket exists.
func OpenStorage(ctx context.Context, cfg *config.Settings) (*storage.MinioStorage, error) {
	client, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return nil, fmt.Errorf("initialise minio client: %w", err)
	}
	strg := storage.NewMinioStorage(client, cfg.Bucket, cfg.AssetsPublicBaseURL)
	if err := strg.InitBucket(ctx); err != nil {
		return nil, fmt.Errorf("initialise bucket %q: %w", cfg.Bucket, err)
	}
	return strg, nil
}
