package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/shurcooL/githubv4"
)

// repoContributions is one entry of a *ContributionsByRepository connection.
type repoContributions struct {
	Repository struct {
		NameWithOwner string
	}
	Contributions struct {
		TotalCount int
	} `graphql:"contributions(first: 1)"`
}

// contributionsQuery reads the viewer's contribution totals for a window of at most one year.
type contributionsQuery struct {
	Viewer struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions int
			}
			TotalCommitContributions            int
			TotalPullRequestContributions       int
			TotalIssueContributions             int
			TotalPullRequestReviewContributions int
			TotalRepositoryContributions        int

			CommitContributionsByRepository      []repoContributions `graphql:"commitContributionsByRepository(maxRepositories: 100)"`
			PullRequestContributionsByRepository []repoContributions `graphql:"pullRequestContributionsByRepository(maxRepositories: 100)"`
			IssueContributionsByRepository       []repoContributions `graphql:"issueContributionsByRepository(maxRepositories: 100)"`
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	}
}

// FetchContributions returns the viewer's contribution counts between from and to.
// The API rejects windows longer than one year.
func (g *GitHubGateway) FetchContributions(ctx context.Context, from, to time.Time) (domain.ContributionWindow, error) {
	g.logger.Printf("Fetching contributions from %s to %s...\n", from.Format(time.DateOnly), to.Format(time.DateOnly))
	variables := map[string]interface{}{
		"from": githubv4.DateTime{Time: from},
		"to":   githubv4.DateTime{Time: to},
	}
	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.ContributionWindow{}, fmt.Errorf("failed to execute GraphQL query for contributions: %w", err)
	}

	c := q.Viewer.ContributionsCollection
	window := domain.ContributionWindow{
		Commits:       c.TotalCommitContributions,
		PRs:           c.TotalPullRequestContributions,
		Issues:        c.TotalIssueContributions,
		CalendarTotal: c.ContributionCalendar.TotalContributions,
		Reviews:       c.TotalPullRequestReviewContributions,
		RepoCreations: c.TotalRepositoryContributions,
		Repositories:  make(map[string]struct{}),
	}
	for _, list := range [][]repoContributions{
		c.CommitContributionsByRepository,
		c.IssueContributionsByRepository,
		c.PullRequestContributionsByRepository,
	} {
		for _, item := range list {
			if item.Contributions.TotalCount > 0 {
				window.Repositories[item.Repository.NameWithOwner] = struct{}{}
			}
		}
	}
	return window, nil
}

// SearchCommitCount returns the total number of commits the search API attributes to login.
func (g *GitHubGateway) SearchCommitCount(ctx context.Context, login string) (int, error) {
	result, _, err := g.restClient.Search.Commits(ctx, "author:"+login, searchOptions())
	if err != nil {
		return 0, fmt.Errorf("failed to search commits with REST API: %w", toAPIError(err))
	}
	return result.GetTotal(), nil
}

// SearchIssueCount returns the number of issues or pull requests authored by
// login, selected by qualifier ("is:issue" or "is:pr").
func (g *GitHubGateway) SearchIssueCount(ctx context.Context, login, qualifier string) (int, error) {
	result, _, err := g.restClient.Search.Issues(ctx, "author:"+login+" "+qualifier, searchOptions())
	if err != nil {
		return 0, fmt.Errorf("failed to search issues with REST API: %w", toAPIError(err))
	}
	return result.GetTotal(), nil
}

// searchOptions asks for a single item, only total_count is read.
func searchOptions() *github.SearchOptions {
	return &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
}
