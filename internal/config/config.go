// Package config holds the settings of one README build, read once at startup
// from the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Defaults for settings that have no environment variable.
const (
	DefaultReadmePath   = "README.md"
	DefaultJSONPath     = "github_overview.json"
	DefaultMinStars     = 11
	DefaultTimeZone     = "Asia/Shanghai"
	DefaultChartWidth   = 20
	DefaultReleaseLimit = 3
)

// Config is built once in the command and passed to every component.
type Config struct {
	// Token authenticates API requests. Empty means public data only and no activity stats.
	Token string
	// Login is used when the authenticated user cannot be fetched.
	Login string
	// ExtraOrgs are organizations scanned in addition to the discovered ones.
	ExtraOrgs []string
	// ExternalRepos ("owner/name") add their stars and forks to the totals.
	ExternalRepos []string

	ReadmePath   string
	JSONPath     string
	MinStars     int
	TimeZone     string
	ChartWidth   int
	ReleaseLimit int
	Verbose      bool
}

// Load reads the environment through getenv and fills in defaults for everything else.
func Load(getenv func(string) string) *Config {
	token := strings.TrimSpace(getenv("GH_TOKEN"))
	if token == "" {
		token = strings.TrimSpace(getenv("GITHUB_TOKEN"))
	}
	return &Config{
		Token:         token,
		Login:         strings.TrimSpace(getenv("GH_USERNAME")),
		ExtraOrgs:     ParseList(getenv("GH_EXTRA_ORGS")),
		ExternalRepos: ParseList(getenv("GH_EXTERNAL_REPOS")),
		ReadmePath:    DefaultReadmePath,
		JSONPath:      DefaultJSONPath,
		MinStars:      DefaultMinStars,
		TimeZone:      DefaultTimeZone,
		ChartWidth:    DefaultChartWidth,
		ReleaseLimit:  DefaultReleaseLimit,
	}
}

// HasToken reports whether authenticated endpoints can be used.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate checks the settings that flags and the environment can get wrong.
func (c *Config) Validate() error {
	var errs []error
	if c.ReadmePath == "" {
		errs = append(errs, errors.New("readme path must not be empty"))
	}
	if c.JSONPath == "" {
		errs = append(errs, errors.New("json path must not be empty"))
	}
	if c.MinStars < 0 {
		errs = append(errs, fmt.Errorf("min stars must not be negative, got %d", c.MinStars))
	}
	if c.ChartWidth <= 0 {
		errs = append(errs, fmt.Errorf("chart width must be positive, got %d", c.ChartWidth))
	}
	if c.ReleaseLimit <= 0 {
		errs = append(errs, fmt.Errorf("release limit must be positive, got %d", c.ReleaseLimit))
	}
	for _, repo := range c.ExternalRepos {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			errs = append(errs, fmt.Errorf("external repo %s must have format 'owner/name'", repo))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseList splits a comma-separated value, trimming entries and dropping
// empty ones and repeats while keeping the first-seen order.
func ParseList(value string) []string {
	seen := make(map[string]struct{})
	var list []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		list = append(list, item)
	}
	return list
}
