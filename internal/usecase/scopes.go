package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/readme-stats/internal/domain"
)

// DedupeByFullName keeps the first repository seen for every full name.
func DedupeByFullName(repos []domain.Repository) []domain.Repository {
	seen := make(map[string]struct{}, len(repos))
	unique := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if _, ok := seen[repo.FullName]; ok {
			continue
		}
		seen[repo.FullName] = struct{}{}
		unique = append(unique, repo)
	}
	return unique
}

// MergeScopes concatenates the three scopes and deduplicates the result by full name.
func MergeScopes(owned, member, org []domain.Repository) []domain.Repository {
	all := make([]domain.Repository, 0, len(owned)+len(member)+len(org))
	all = append(all, owned...)
	all = append(all, member...)
	all = append(all, org...)
	return DedupeByFullName(all)
}

// ExclusiveScopes makes the scopes disjoint: member loses what is owned and
// org loses what is owned or member. Each scope is deduplicated as well.
func ExclusiveScopes(owned, member, org []domain.Repository) (o, m, g []domain.Repository) {
	o = DedupeByFullName(owned)
	taken := make(map[string]struct{}, len(o)+len(member))
	for _, repo := range o {
		taken[repo.FullName] = struct{}{}
	}
	m = excluding(DedupeByFullName(member), taken)
	for _, repo := range m {
		taken[repo.FullName] = struct{}{}
	}
	g = excluding(DedupeByFullName(org), taken)
	return o, m, g
}

func excluding(repos []domain.Repository, taken map[string]struct{}) []domain.Repository {
	kept := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if _, ok := taken[repo.FullName]; !ok {
			kept = append(kept, repo)
		}
	}
	return kept
}

// SumStats adds up stars and forks.
func SumStats(repos []domain.Repository) domain.RepoStats {
	var total domain.RepoStats
	for _, repo := range repos {
		total.Stars += repo.Stars
		total.Forks += repo.Forks
	}
	return total
}

// Summarize derives the stats of a deduplicated scope.
func Summarize(repos []domain.Repository) domain.ScopeStats {
	stars := make([]int, 0, len(repos))
	for _, repo := range repos {
		stars = append(stars, repo.Stars)
	}
	median, err := stats.Median(stats.LoadRawData(stars))
	if err != nil {
		median = 0
	}
	return domain.ScopeStats{
		RepoStats:   SumStats(repos),
		Count:       len(repos),
		MedianStars: median,
		Repos:       repos,
	}
}

// BucketByOrg groups organization repositories by owner login, in first-seen order.
func BucketByOrg(repos []domain.Repository) []domain.OrgBucket {
	index := make(map[string]int)
	var buckets []domain.OrgBucket
	for _, repo := range repos {
		login := repo.Owner()
		i, ok := index[login]
		if !ok {
			i = len(buckets)
			index[login] = i
			buckets = append(buckets, domain.OrgBucket{Login: login})
		}
		buckets[i].Stars += repo.Stars
		buckets[i].Forks += repo.Forks
		buckets[i].Count++
	}
	return buckets
}
