package domain

// RepoStats holds the star and fork totals of a set of repositories.
type RepoStats struct {
	Stars int `json:"stars"`
	Forks int `json:"forks"`
}

// ScopeStats is a named bucket of deduplicated repositories with its derived totals.
// Repos only holds the ranked subset that passed the star floor, Count is the full set.
type ScopeStats struct {
	RepoStats
	Count       int          `json:"count"`
	MedianStars float64      `json:"median_stars"`
	Repos       []Repository `json:"repos"`
}

// Scope names.
const (
	ScopeOwned        = "owned"
	ScopeMember       = "member"
	ScopeOrganization = "organization"
	ScopeMerged       = "merged"
)

// OrgBucket aggregates the organization scope by organization login.
type OrgBucket struct {
	Login string `json:"login"`
	RepoStats
	Count int `json:"count"`
}

// ActivityStats is the lifetime contribution activity of an account.
type ActivityStats struct {
	Commits       int `json:"commits"`
	PRs           int `json:"prs"`
	Issues        int `json:"issues"`
	Total         int `json:"total"`
	ContributedTo int `json:"contributed_to"`
}

// ContributionWindow holds the contribution counts of one window of the
// contributions collection, or the sum of several windows.
type ContributionWindow struct {
	Commits       int
	PRs           int
	Issues        int
	CalendarTotal int
	Reviews       int
	RepoCreations int
	Repositories  map[string]struct{}
}

// Add merges other into w.
func (w *ContributionWindow) Add(other ContributionWindow) {
	w.Commits += other.Commits
	w.PRs += other.PRs
	w.Issues += other.Issues
	w.CalendarTotal += other.CalendarTotal
	w.Reviews += other.Reviews
	w.RepoCreations += other.RepoCreations
	if w.Repositories == nil {
		w.Repositories = make(map[string]struct{}, len(other.Repositories))
	}
	for name := range other.Repositories {
		w.Repositories[name] = struct{}{}
	}
}

// ChartItem is one labelled bar of a chart.
type ChartItem struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
