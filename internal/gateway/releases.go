package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/readme-stats/internal/domain"
)

const releasesPerRepo = 10

// FetchReleases returns the published releases among the most recent ones of repo.
func (g *GitHubGateway) FetchReleases(ctx context.Context, repo domain.Repository) ([]domain.Release, error) {
	owner, name, _ := strings.Cut(repo.FullName, "/")
	items, _, err := g.restClient.Repositories.ListReleases(ctx, owner, name, &github.ListOptions{Page: 1, PerPage: releasesPerRepo})
	if err != nil {
		return nil, fmt.Errorf("failed to list releases of %s: %w", repo.FullName, toAPIError(err))
	}
	if len(items) > releasesPerRepo {
		items = items[:releasesPerRepo]
	}

	releases := make([]domain.Release, 0, len(items))
	for _, item := range items {
		if item.PublishedAt == nil {
			continue
		}
		releases = append(releases, domain.Release{
			Repo:        repo.Name,
			FullName:    repo.FullName,
			RepoURL:     repo.URL,
			Description: repo.Description,
			Release:     releaseTitle(item, repo.Name),
			PublishedAt: item.PublishedAt.UTC().Format("2006-01-02"),
			URL:         item.GetHTMLURL(),
		})
	}
	return releases, nil
}

// releaseTitle prefers the release name over its tag and drops the
// repository name from it, so "foo v1.2" of repo foo renders as "v1.2".
func releaseTitle(r *github.RepositoryRelease, repoName string) string {
	title := r.GetTagName()
	if r.Name != nil {
		title = *r.Name
	}
	return strings.TrimSpace(strings.Replace(title, repoName, "", 1))
}
