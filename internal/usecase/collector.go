package usecase

import (
	"context"
	"strings"

	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/pterm/pterm"
)

// collectRepos runs one repository listing, reporting a failure as an empty scope.
func (a *Aggregator) collectRepos(ctx context.Context, scope string, fetch func(context.Context) ([]domain.Repository, error)) []domain.Repository {
	repos, err := fetch(ctx)
	if err != nil {
		pterm.Warning.Printf("Error fetching %s repositories: %v\n", scope, err)
		return nil
	}
	a.logger.Printf("Found %d %s repositories.\n", len(repos), scope)
	return repos
}

// collectOrganizations returns the configured extra organizations followed by
// the ones visible to the token and the ones listed publicly for login.
// Either discovery source may fail on its own without affecting the other.
func (a *Aggregator) collectOrganizations(ctx context.Context, login string) []string {
	orgs := append([]string(nil), a.cfg.ExtraOrgs...)

	viewerOrgs, err := a.fetcher.FetchViewerOrgs(ctx)
	if err != nil {
		pterm.Warning.Printf("Error fetching organizations from /user/orgs: %v\n", err)
	}
	orgs = append(orgs, viewerOrgs...)

	if login != "" {
		userOrgs, err := a.fetcher.FetchUserOrgs(ctx, login)
		if err != nil {
			pterm.Warning.Printf("Error fetching organizations from /users/%s/orgs: %v\n", login, err)
		}
		orgs = append(orgs, userOrgs...)
	}

	seen := make(map[string]struct{}, len(orgs))
	unique := make([]string, 0, len(orgs))
	for _, org := range orgs {
		org = strings.TrimSpace(org)
		if org == "" {
			continue
		}
		if _, ok := seen[org]; ok {
			continue
		}
		seen[org] = struct{}{}
		unique = append(unique, org)
	}
	a.logger.Printf("Scanning %d organizations: %s\n", len(unique), strings.Join(unique, ", "))
	return unique
}

// collectOrgRepos lists the repositories of every organization in turn. An
// organization that cannot be listed contributes nothing.
func (a *Aggregator) collectOrgRepos(ctx context.Context, orgs []string) []domain.Repository {
	var repos []domain.Repository
	for _, org := range orgs {
		orgRepos, err := a.fetcher.FetchOrgRepos(ctx, org)
		if err != nil {
			pterm.Warning.Printf("Error fetching organization repositories for %s: %v\n", org, err)
			continue
		}
		repos = append(repos, orgRepos...)
	}
	return repos
}

// collectExternal fetches the configured external repositories. A failing one counts as zero.
func (a *Aggregator) collectExternal(ctx context.Context) map[string]domain.RepoStats {
	external := make(map[string]domain.RepoStats, len(a.cfg.ExternalRepos))
	for _, fullName := range a.cfg.ExternalRepos {
		repoStats, err := a.fetcher.FetchRepoStats(ctx, fullName)
		if err != nil {
			pterm.Warning.Printf("Error fetching %s stats: %v\n", fullName, err)
		}
		external[fullName] = repoStats
	}
	return external
}

// fetchUser returns the authenticated user, or a stand-in built from the
// configured login and the follower count already shown in the README.
// A missing creation date counts as now, so no contribution window is walked.
func (a *Aggregator) fetchUser(ctx context.Context, fallbackFollowers int) domain.UserInfo {
	user, err := a.fetcher.FetchViewer(ctx)
	if err != nil {
		pterm.Warning.Printf("Error fetching current user info: %v\n", err)
		return domain.UserInfo{
			Login:     a.cfg.Login,
			Followers: fallbackFollowers,
			CreatedAt: a.now(),
		}
	}
	if user.Login == "" {
		user.Login = a.cfg.Login
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = a.now()
	}
	return user
}
