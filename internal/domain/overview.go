package domain

// Overview is everything one aggregation run gathered, ready to be rendered.
type Overview struct {
	User          UserInfo
	Scopes        map[string]ScopeStats
	Organizations []OrgBucket
	External      map[string]RepoStats
	Totals        RepoStats
	Activity      ActivityStats
	Releases      []Release
}
