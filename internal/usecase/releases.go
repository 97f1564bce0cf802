package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/pterm/pterm"
)

// collectReleases fetches the releases of every repository in turn. A
// repository whose releases cannot be fetched contributes none.
func (a *Aggregator) collectReleases(ctx context.Context, repos []domain.Repository) []domain.Release {
	a.logger.Printf("Fetching releases of %d repositories...\n", len(repos))
	var releases []domain.Release
	for _, repo := range repos {
		items, err := a.fetcher.FetchReleases(ctx, repo)
		if err != nil {
			pterm.Warning.Printf("Error fetching releases for %s: %v\n", repo.Name, err)
			continue
		}
		releases = append(releases, items...)
	}
	return releases
}

// RecentReleases orders releases newest first, keeps the newest one of each
// repository and returns at most limit of them.
func RecentReleases(releases []domain.Release, limit int) []domain.Release {
	sorted := slices.Clone(releases)
	slices.SortStableFunc(sorted, func(a, b domain.Release) int {
		return strings.Compare(b.PublishedAt, a.PublishedAt)
	})

	seen := make(map[string]struct{})
	recent := make([]domain.Release, 0, limit)
	for _, release := range sorted {
		if len(recent) == limit {
			break
		}
		if _, ok := seen[release.FullName]; ok {
			continue
		}
		seen[release.FullName] = struct{}{}
		recent = append(recent, release)
	}
	return recent
}
