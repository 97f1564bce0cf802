// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

const (
	defaultAPIURL = "https://api.github.com/"
	userAgent     = "readme-stats"
	acceptHeader  = "application/vnd.github+json"
	perPage       = 100
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchOwnedRepos(ctx context.Context) ([]domain.Repository, error)
	FetchMemberRepos(ctx context.Context) ([]domain.Repository, error)
	FetchViewerOrgs(ctx context.Context) ([]string, error)
	FetchUserOrgs(ctx context.Context, login string) ([]string, error)
	FetchOrgRepos(ctx context.Context, org string) ([]domain.Repository, error)
	FetchReleases(ctx context.Context, repo domain.Repository) ([]domain.Release, error)
	FetchViewer(ctx context.Context) (domain.UserInfo, error)
	FetchRepoStats(ctx context.Context, fullName string) (domain.RepoStats, error)
	FetchContributions(ctx context.Context, from, to time.Time) (domain.ContributionWindow, error)
	SearchCommitCount(ctx context.Context, login string) (int, error)
	SearchIssueCount(ctx context.Context, login, qualifier string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// restClient carries the token when one is configured, publicClient never does.
type GitHubGateway struct {
	restClient    *github.Client
	publicClient  *github.Client
	graphqlClient *githubv4.Client
	hasToken      bool
	logger        *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields a gateway that only issues unauthenticated requests.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	return newGateway(rateLimitWaiter, token, defaultAPIURL, logger)
}

func newGateway(base http.RoundTripper, token, apiURL string, logger *log.Logger) (*GitHubGateway, error) {
	publicHTTP := &http.Client{Transport: &apiTransport{base: base}}
	authHTTP := publicHTTP
	if token != "" {
		authHTTP = &http.Client{
			Transport: &oauth2.Transport{
				Base:   &apiTransport{base: base},
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			},
		}
	}
	graphqlHTTP := &http.Client{Transport: &graphqlTransport{base: authHTTP.Transport}}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL %q: %w", apiURL, err)
	}
	restClient := github.NewClient(authHTTP)
	restClient.BaseURL = baseURL
	publicClient := github.NewClient(publicHTTP)
	publicClient.BaseURL = baseURL

	return &GitHubGateway{
		restClient:    restClient,
		publicClient:  publicClient,
		graphqlClient: githubv4.NewEnterpriseClient(apiURL+"graphql", graphqlHTTP),
		hasToken:      token != "",
		logger:        logger,
	}, nil
}

// apiTransport stamps the fixed client headers on every request, redirects included.
type apiTransport struct {
	base http.RoundTripper
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// graphqlTransport turns a failed GraphQL response into an *APIError and a
// successful one that carries errors into a *GraphQLError joining every
// message instead of only the first one. Redirects pass through to the client.
type graphqlTransport struct {
	base http.RoundTripper
}

func (t *graphqlTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Path:       req.URL.RequestURI(),
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &GraphQLError{Messages: messages}
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// listFunc fetches one page of a go-github list endpoint.
type listFunc[T any] func(ctx context.Context, opts github.ListOptions) ([]T, *github.Response, error)

// paginate walks a list endpoint page by page, starting at 1, until a page
// comes back with fewer than perPage items.
func paginate[T any](ctx context.Context, list listFunc[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		batch, _, err := list(ctx, github.ListOptions{Page: page, PerPage: perPage})
		if err != nil {
			return nil, toAPIError(err)
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}
