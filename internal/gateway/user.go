package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/naka-gawa/readme-stats/internal/domain"
)

// FetchViewer returns the authenticated user.
func (g *GitHubGateway) FetchViewer(ctx context.Context) (domain.UserInfo, error) {
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return domain.UserInfo{}, fmt.Errorf("failed to fetch current user: %w", toAPIError(err))
	}
	return domain.UserInfo{
		Login:     user.GetLogin(),
		Followers: user.GetFollowers(),
		CreatedAt: user.GetCreatedAt().Time,
	}, nil
}

// FetchRepoStats returns the star and fork counts of a single repository.
// Renamed or transferred repositories are followed to their new location.
func (g *GitHubGateway) FetchRepoStats(ctx context.Context, fullName string) (domain.RepoStats, error) {
	owner, name, _ := strings.Cut(fullName, "/")
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return domain.RepoStats{}, fmt.Errorf("failed to fetch repository %s: %w", fullName, toAPIError(err))
	}
	return domain.RepoStats{Stars: repo.GetStargazersCount(), Forks: repo.GetForksCount()}, nil
}
