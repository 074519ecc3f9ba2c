package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// nilVersion is what migrate.Force expects to reset a database to no migration.
const nilVersion = -1

func MigrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source driver: %w", err)
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migration: %w", err)
	}

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	// if it's a dirty error, roll back to the previous version and retry
	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	prev, err := previousVersion(dirtyErr.Version)
	if err != nil {
		return err
	}
	logger.Warnf(context.Background(), "database dirty at version %d, forcing back to %d", dirtyErr.Version, prev)
	if ferr := m.Force(prev); ferr != nil {
		return fmt.Errorf("failed to force to version %d: %w", prev, ferr)
	}
	// retry Up() once more
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed after force: %w", err)
	}
	return nil
}

func availableVersions() ([]int, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		// filename format: <version>_<description>.up.sql
		verStr, _, _ := strings.Cut(name, "_")
		v, err := strconv.Atoi(verStr)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions, nil
}

// previousVersion returns the version applied before dirty, or nilVersion when
// dirty is the first migration.
func previousVersion(dirty int) (int, error) {
	versions, err := availableVersions()
	if err != nil {
		return 0, fmt.Errorf("dirty at %d but %w", dirty, err)
	}
	for i, v := range versions {
		if v != dirty {
			continue
		}
		if i == 0 {
			return nilVersion, nil
		}
		return versions[i-1], nil
	}
	return 0, fmt.Errorf("could not determine previous version before %d", dirty)
}
