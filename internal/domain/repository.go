// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"strings"
	"time"
)

// Repository is a GitHub repository as seen by one aggregation run.
// FullName ("owner/name") is its identity.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	URL         string `json:"html_url"`
	Fork        bool   `json:"-"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}

// Owner returns the part of the full name before the slash.
func (r Repository) Owner() string {
	owner, _, _ := strings.Cut(r.FullName, "/")
	return owner
}

// Release is one published release of an owned repository.
type Release struct {
	Repo        string `json:"repo"`
	FullName    string `json:"full_name"`
	RepoURL     string `json:"repo_url"`
	Description string `json:"description"`
	Release     string `json:"release"`
	PublishedAt string `json:"published_at"` // YYYY-MM-DD
	URL         string `json:"url"`
}

// UserInfo is the account the README belongs to.
type UserInfo struct {
	Login     string
	Followers int
	CreatedAt time.Time
}
