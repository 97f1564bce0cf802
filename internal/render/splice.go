package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Marker names used in the README template.
const (
	MarkerRecentReleases = "recent_releases"
	MarkerGitHubStats    = "github_stats"
	MarkerGitHubCharts   = "github_charts"
	MarkerRepoRankings   = "repo_rankings"
	MarkerLastUpdated    = "last_updated"
)

// SpliceMarkers replaces everything between <!-- marker starts --> and
// <!-- marker ends --> with content. Non-inline content is put on its own
// lines. A template without the marker pair is returned unchanged.
func SpliceMarkers(template, marker, content string, inline bool) string {
	start := fmt.Sprintf("<!-- %s starts -->", marker)
	end := fmt.Sprintf("<!-- %s ends -->", marker)
	pattern := regexp.MustCompile(regexp.QuoteMeta(start) + `[\s\S]*` + regexp.QuoteMeta(end))

	body := content
	if !inline {
		body = "\n" + content + "\n"
	}
	return pattern.ReplaceAllLiteralString(template, start+body+end)
}

var statLinePattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*) followers\D*?(\d{1,3}(?:,\d{3})*) stars\D*?(\d{1,3}(?:,\d{3})*) forks`)

// CurrentStats are the figures of a stat line already present in a template.
type CurrentStats struct {
	Followers int
	Stars     int
	Forks     int
}

// ParseStatLine reads the followers, stars and forks counts a previous run
// left in the template.
func ParseStatLine(template string) (CurrentStats, bool) {
	m := statLinePattern.FindStringSubmatch(template)
	if m == nil {
		return CurrentStats{}, false
	}
	parse := func(s string) int {
		n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
		return n
	}
	return CurrentStats{Followers: parse(m[1]), Stars: parse(m[2]), Forks: parse(m[3])}, true
}
