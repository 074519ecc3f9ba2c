package main

import (
	"context"
	"os"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/bootstrap"
	"github.com/fhuszti/movies-ms-go/internal/config"
	"github.com/fhuszti/movies-ms-go/internal/db"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/migration"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.DocumentStore != config.DocumentStoreMariaDB {
		logger.Infof(ctx, "✅  Document store %q needs no migrations", cfg.DocumentStore)
		return
	}

	database, err := initDb(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func initDb(ctx context.Context, cfg *config.Settings) (*db.Database, error) {
	dbCfg := bootstrap.MariaDBConfig(cfg)
	dbCfg.DSN = withMultiStatements(dbCfg.DSN)
	return db.New(ctx, dbCfg)
}

func withMultiStatements(dsn string) string {
	if strings.Contains(dsn, "multiStatements=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&multiStatements=true"
	}
	return dsn + "?multiStatements=true"
}
