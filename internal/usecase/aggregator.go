// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/readme-stats/internal/config"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/naka-gawa/readme-stats/internal/gateway"
)

// Aggregator is the use case for building the README overview.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	cfg     *config.Config
	logger  *log.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, cfg *config.Config, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Aggregate performs the main business logic. Every fetch runs in sequence
// and any single failure only empties its own part of the overview, so the
// only error returned is a cancelled context.
// fallbackFollowers is used when the current user cannot be fetched.
func (a *Aggregator) Aggregate(ctx context.Context, fallbackFollowers int) (*domain.Overview, error) {
	a.logger.Println("Usecase: Starting data aggregation...")

	owned := a.collectRepos(ctx, domain.ScopeOwned, a.fetcher.FetchOwnedRepos)
	releases := RecentReleases(a.collectReleases(ctx, owned), a.cfg.ReleaseLimit)
	member := a.collectRepos(ctx, domain.ScopeMember, a.fetcher.FetchMemberRepos)

	user := a.fetchUser(ctx, fallbackFollowers)
	orgs := a.collectOrganizations(ctx, user.Login)
	orgRepos := a.collectOrgRepos(ctx, orgs)
	external := a.collectExternal(ctx)
	activity := a.ComputeActivity(ctx, user.Login, user.CreatedAt)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: All data fetched.")

	owned, member, orgRepos = ExclusiveScopes(owned, member, orgRepos)
	merged := MergeScopes(owned, member, orgRepos)

	totals := SumStats(merged)
	for _, ext := range external {
		totals.Stars += ext.Stars
		totals.Forks += ext.Forks
	}

	a.logger.Println("Usecase: Aggregation complete.")
	return &domain.Overview{
		User: user,
		Scopes: map[string]domain.ScopeStats{
			domain.ScopeOwned:        Summarize(owned),
			domain.ScopeMember:       Summarize(member),
			domain.ScopeOrganization: Summarize(orgRepos),
			domain.ScopeMerged:       Summarize(merged),
		},
		Organizations: BucketByOrg(orgRepos),
		External:      external,
		Totals:        totals,
		Activity:      activity,
		Releases:      releases,
	}, nil
}
