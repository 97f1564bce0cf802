package gateway

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/readme-stats/internal/domain"
)

// FetchOwnedRepos lists the non-fork repositories owned by the authenticated user.
func (g *GitHubGateway) FetchOwnedRepos(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Println("Fetching owned repositories...")
	return fetchRepos(ctx, "owned repositories", g.listAuthenticatedUserRepos(&github.RepositoryListByAuthenticatedUserOptions{Type: "owner"}))
}

// FetchMemberRepos lists the non-fork repositories the authenticated user
// collaborates on or reaches through an organization membership.
func (g *GitHubGateway) FetchMemberRepos(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Println("Fetching member repositories...")
	return fetchRepos(ctx, "member repositories", g.listAuthenticatedUserRepos(&github.RepositoryListByAuthenticatedUserOptions{Affiliation: "collaborator,organization_member"}))
}

func (g *GitHubGateway) listAuthenticatedUserRepos(opts *github.RepositoryListByAuthenticatedUserOptions) listFunc[*github.Repository] {
	return func(ctx context.Context, page github.ListOptions) ([]*github.Repository, *github.Response, error) {
		opts.ListOptions = page
		return g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
	}
}

// FetchOrgRepos lists the non-fork repositories of an organization. A page
// that fails with the token is retried once without it.
func (g *GitHubGateway) FetchOrgRepos(ctx context.Context, org string) ([]domain.Repository, error) {
	g.logger.Printf("Fetching repositories of organization %s...\n", org)
	listWith := func(ctx context.Context, client *github.Client, page github.ListOptions) ([]*github.Repository, *github.Response, error) {
		return client.Repositories.ListByOrg(ctx, org, &github.RepositoryListByOrgOptions{Type: "all", ListOptions: page})
	}
	list := func(ctx context.Context, page github.ListOptions) ([]*github.Repository, *github.Response, error) {
		repos, resp, err := listWith(ctx, g.restClient, page)
		if err == nil || !g.hasToken {
			return repos, resp, err
		}
		g.logger.Printf("  Authenticated request for %s page %d failed, retrying without token: %v\n", org, page.Page, err)
		return listWith(ctx, g.publicClient, page)
	}
	return fetchRepos(ctx, "repositories of organization "+org, list)
}

// FetchViewerOrgs lists the organizations of the authenticated user.
func (g *GitHubGateway) FetchViewerOrgs(ctx context.Context) ([]string, error) {
	return fetchOrgLogins(ctx, "organizations of the authenticated user", g.listOrgs(g.restClient, ""))
}

// FetchUserOrgs lists the public organization memberships of login.
func (g *GitHubGateway) FetchUserOrgs(ctx context.Context, login string) ([]string, error) {
	return fetchOrgLogins(ctx, "organizations of "+login, g.listOrgs(g.publicClient, login))
}

func (g *GitHubGateway) listOrgs(client *github.Client, login string) listFunc[*github.Organization] {
	return func(ctx context.Context, page github.ListOptions) ([]*github.Organization, *github.Response, error) {
		return client.Organizations.List(ctx, login, &page)
	}
}

func fetchRepos(ctx context.Context, what string, list listFunc[*github.Repository]) ([]domain.Repository, error) {
	items, err := paginate(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	repos := make([]domain.Repository, 0, len(items))
	for _, item := range items {
		if item.GetFork() {
			continue
		}
		repos = append(repos, toRepository(item))
	}
	return repos, nil
}

func fetchOrgLogins(ctx context.Context, what string, list listFunc[*github.Organization]) ([]string, error) {
	items, err := paginate(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	logins := make([]string, 0, len(items))
	for _, item := range items {
		logins = append(logins, item.GetLogin())
	}
	return logins, nil
}

func toRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		Fork:        r.GetFork(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}
}
