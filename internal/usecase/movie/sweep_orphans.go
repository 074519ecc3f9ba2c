package movie

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

type orphanSweeperSrv struct {
	repo  port.MovieRepository
	strg  port.Storage
	tasks port.AssetCleanupDispatcher
	grace time.Duration
	now   func() time.Time
}

func NewOrphanSweeper(repo port.MovieRepository, strg port.Storage, tasks port.AssetCleanupDispatcher, grace time.Duration) port.OrphanSweeper {
	return &orphanSweeperSrv{repo: repo, strg: strg, tasks: tasks, grace: grace, now: time.Now}
}

// SweepOrphans schedules removal of movie assets that no record owns: neither
// under a record's namespace nor referenced by its URLs. Only the movie namespaces
// are swept, standalone uploads are left alone. Objects younger than the grace
// period are skipped so in-flight requests are not raced. It returns the number of
// paths scheduled.
func (s *orphanSweeperSrv) SweepOrphans(ctx context.Context) (int, error) {
	movies, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list movies: %w", storeErr(err))
	}
	namespaces := make(map[string]bool, len(movies))
	referenced := make(map[string]bool, 2*len(movies))
	for _, m := range movies {
		if m.AssetNamespace != "" {
			namespaces[m.AssetNamespace] = true
		}
		for _, u := range []string{m.ImageURL, m.VideoURL} {
			if p, ok := s.strg.PathFromURL(u); ok {
				referenced[p] = true
			}
		}
	}

	objects, err := s.strg.ListByPrefix(ctx, MovieAssetsPrefix)
	if err != nil {
		return 0, fmt.Errorf("list assets: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	byNamespace := map[string][]string{}
	for _, o := range objects {
		rest, ok := strings.CutPrefix(o.Path, MovieAssetsPrefix)
		if !ok {
			continue
		}
		token, _, found := strings.Cut(rest, "/")
		if !found || token == "" {
			continue
		}
		ns := MovieAssetsPrefix + token
		if namespaces[ns] || referenced[o.Path] || o.LastModified.After(cutoff) {
			continue
		}
		byNamespace[ns] = append(byNamespace[ns], o.Path)
	}

	keys := make([]string, 0, len(byNamespace))
	for ns := range byNamespace {
		keys = append(keys, ns)
	}
	sort.Strings(keys)

	scheduled := 0
	for _, ns := range keys {
		paths := byNamespace[ns]
		if err := s.tasks.EnqueueAssetCleanup(ctx, paths); err != nil {
			return scheduled, fmt.Errorf("schedule cleanup of %q: %w", ns, err)
		}
		logger.Infof(ctx, "scheduled cleanup of %d orphaned asset(s) under %q", len(paths), ns)
		scheduled += len(paths)
	}
	return scheduled, nil
}
