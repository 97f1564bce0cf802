package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/naka-gawa/readme-stats/internal/domain"
)

// lastUpdatedLayout matches the medium date and time style of en-US, e.g. "Oct 16, 2026, 3:04:05 PM".
const lastUpdatedLayout = "Jan 2, 2006, 3:04:05 PM"

// Totals are the headline numbers of the stat line.
type Totals struct {
	Followers int `json:"followers"`
	Stars     int `json:"stars"`
	Forks     int `json:"forks"`
}

// Fragments are the generated markdown pieces, verbatim.
type Fragments struct {
	RecentReleases string `json:"recent_releases"`
	GitHubStats    string `json:"github_stats"`
	Charts         string `json:"charts"`
	Rankings       string `json:"rankings"`
}

// Snapshot is the JSON document written next to the README.
type Snapshot struct {
	GeneratedAt    string                       `json:"generated_at"`
	LastUpdated    string                       `json:"last_updated"`
	External       map[string]domain.RepoStats  `json:"external"`
	Totals         Totals                       `json:"totals"`
	Scopes         map[string]domain.ScopeStats `json:"scopes"`
	Organizations  []domain.OrgBucket           `json:"organizations"`
	Activity       domain.ActivityStats         `json:"activity"`
	RecentReleases []domain.Release             `json:"recent_releases"`
	Markdown       Fragments                    `json:"markdown"`
}

// Marshal encodes the snapshot as indented JSON without HTML escaping, so the
// <br> separators in the fragments stay readable.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatLastUpdated renders t in loc for the last_updated marker.
func FormatLastUpdated(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(lastUpdatedLayout)
}
