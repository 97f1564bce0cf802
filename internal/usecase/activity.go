package usecase

import (
	"context"
	"time"

	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
)

// SearchCounts are the activity totals reported by the search API.
type SearchCounts struct {
	Commits int
	PRs     int
	Issues  int
}

// ComputeActivity estimates the lifetime activity of login. The contributions
// collection only answers for windows of up to a year, so the account's
// lifetime is walked one year at a time and then cross-checked against search.
func (a *Aggregator) ComputeActivity(ctx context.Context, login string, createdAt time.Time) domain.ActivityStats {
	if !a.cfg.HasToken() {
		a.logger.Println("No token configured, skipping activity stats.")
		return domain.ActivityStats{}
	}
	graph := a.walkContributions(ctx, createdAt)
	search := a.searchCounts(ctx, login)
	return Reconcile(graph, search)
}

// walkContributions sums consecutive one-year windows from createdAt to now.
// The first failing window ends the walk; earlier windows are kept.
func (a *Aggregator) walkContributions(ctx context.Context, createdAt time.Time) domain.ContributionWindow {
	now := a.now()
	merged := domain.ContributionWindow{Repositories: make(map[string]struct{})}
	for cursor := createdAt; cursor.Before(now); {
		end := cursor.AddDate(1, 0, 0)
		if end.After(now) {
			end = now
		}
		window, err := a.fetcher.FetchContributions(ctx, cursor, end)
		if err != nil {
			pterm.Warning.Printf("Error fetching yearly activity: %v\n", err)
			break
		}
		merged.Add(window)
		cursor = end
	}
	return merged
}

// searchCounts runs the three search queries concurrently. They stand or fall
// together: any failure zeroes all three.
func (a *Aggregator) searchCounts(ctx context.Context, login string) SearchCounts {
	var counts SearchCounts
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		counts.Commits, err = a.fetcher.SearchCommitCount(egCtx, login)
		return err
	})

	eg.Go(func() error {
		var err error
		counts.PRs, err = a.fetcher.SearchIssueCount(egCtx, login, "is:pr")
		return err
	})

	eg.Go(func() error {
		var err error
		counts.Issues, err = a.fetcher.SearchIssueCount(egCtx, login, "is:issue")
		return err
	})

	if err := eg.Wait(); err != nil {
		pterm.Warning.Printf("Error fetching activity from Search API: %v\n", err)
		return SearchCounts{}
	}
	return counts
}

// Reconcile combines the contribution graph with the search counts. Both
// estimate the same numbers, so the larger one wins. Commits also consider
// what is left of the calendar total after every typed non-commit kind,
// which catches private contributions the graph does not classify.
func Reconcile(graph domain.ContributionWindow, search SearchCounts) domain.ActivityStats {
	calendarDerived := max(0, graph.CalendarTotal-graph.PRs-graph.Issues-graph.Reviews-graph.RepoCreations)
	commits := max(graph.Commits, search.Commits, calendarDerived)
	prs := max(graph.PRs, search.PRs)
	issues := max(graph.Issues, search.Issues)
	return domain.ActivityStats{
		Commits:       commits,
		PRs:           prs,
		Issues:        issues,
		Total:         commits + prs + issues,
		ContributedTo: len(graph.Repositories),
	}
}
