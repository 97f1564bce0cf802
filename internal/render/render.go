package render

import (
	"time"

	"github.com/naka-gawa/readme-stats/internal/config"
	"github.com/naka-gawa/readme-stats/internal/domain"
)

// Renderer formats an overview into the README and its snapshot.
type Renderer struct {
	minStars   int
	chartWidth int
	location   *time.Location
}

// NewRenderer creates a Renderer from the star floor, chart width and time zone of cfg.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		minStars:   cfg.MinStars,
		chartWidth: cfg.ChartWidth,
		location:   loc,
	}, nil
}

// Render splices the generated fragments into template and builds the
// matching snapshot. now stamps both outputs.
func (r *Renderer) Render(template string, overview *domain.Overview, now time.Time) (string, *Snapshot) {
	merged := overview.Scopes[domain.ScopeMerged]
	totals := Totals{
		Followers: overview.User.Followers,
		Stars:     overview.Totals.Stars,
		Forks:     overview.Totals.Forks,
	}
	fragments := Fragments{
		RecentReleases: ReleaseList(overview.Releases),
		GitHubStats:    StatLine(totals.Followers, overview.Totals, overview.Activity),
		Charts:         Charts(overview, r.chartWidth),
		Rankings:       RankingList(RankByStars(merged.Repos, r.minStars)),
	}
	lastUpdated := FormatLastUpdated(now, r.location)

	readme := SpliceMarkers(template, MarkerRecentReleases, fragments.RecentReleases, false)
	readme = SpliceMarkers(readme, MarkerGitHubStats, fragments.GitHubStats, true)
	readme = SpliceMarkers(readme, MarkerGitHubCharts, fragments.Charts, false)
	readme = SpliceMarkers(readme, MarkerRepoRankings, fragments.Rankings, false)
	readme = SpliceMarkers(readme, MarkerLastUpdated, lastUpdated, true)

	scopes := make(map[string]domain.ScopeStats, len(overview.Scopes))
	for name, scope := range overview.Scopes {
		scope.Repos = RankByStars(scope.Repos, r.minStars)
		scopes[name] = scope
	}
	external := overview.External
	if external == nil {
		external = map[string]domain.RepoStats{}
	}
	orgs := overview.Organizations
	if orgs == nil {
		orgs = []domain.OrgBucket{}
	}
	releases := overview.Releases
	if releases == nil {
		releases = []domain.Release{}
	}

	return readme, &Snapshot{
		GeneratedAt:    now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		LastUpdated:    lastUpdated,
		External:       external,
		Totals:         totals,
		Scopes:         scopes,
		Organizations:  orgs,
		Activity:       overview.Activity,
		RecentReleases: releases,
		Markdown:       fragments,
	}
}
