package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, token string, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	logger := log.New(io.Discard, "", 0)

	gateway, err := newGateway(server.Client().Transport, token, server.URL+"/", logger)
	require.NoError(t, err)

	return gateway, server
}

// repoPage renders n repositories as a JSON array; names are prefix-0, prefix-1, ...
func repoPage(prefix string, n int, forkAt int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(
			`{"name":"%[1]s-%[2]d","full_name":"me/%[1]s-%[2]d","html_url":"https://github.com/me/%[1]s-%[2]d","fork":%[3]t,"stargazers_count":%[2]d,"forks_count":1}`,
			prefix, i, i == forkAt))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestGitHubGateway_FetchOwnedRepos(t *testing.T) {
	testCases := []struct {
		name          string
		handlerFunc   func(t *testing.T) http.HandlerFunc
		expectedCount int
		expectError   bool
		expectStatus  int
	}{
		{
			name: "happy path - paginates until a short page and drops forks",
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/user/repos", r.URL.Path)
					assert.Equal(t, "owner", r.URL.Query().Get("type"))
					assert.Equal(t, "100", r.URL.Query().Get("per_page"))
					assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
					assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
					switch r.URL.Query().Get("page") {
					case "1":
						fmt.Fprint(w, repoPage("a", 100, 3))
					case "2":
						fmt.Fprint(w, repoPage("b", 2, -1))
					default:
						t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
					}
				}
			},
			expectedCount: 101,
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprint(w, `{"message": "Internal Server Error"}`)
				}
			},
			expectError:  true,
			expectStatus: http.StatusInternalServerError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, "test-token", tc.handlerFunc(t))
			defer server.Close()

			repos, err := gateway.FetchOwnedRepos(context.Background())
			if tc.expectError {
				require.Error(t, err)
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tc.expectStatus, apiErr.Status)
				assert.Equal(t, "Internal Server Error", apiErr.StatusText)
				assert.Contains(t, apiErr.Body, "Internal Server Error")
				return
			}
			require.NoError(t, err)
			assert.Len(t, repos, tc.expectedCount)
			for _, repo := range repos {
				assert.False(t, repo.Fork)
			}
			assert.Equal(t, "me/a-0", repos[0].FullName)
		})
	}
}

func TestGitHubGateway_FetchOrgRepos(t *testing.T) {
	testCases := []struct {
		name          string
		token         string
		authStatus    int
		expectedNames []string
		expectError   bool
		expectedCalls int
	}{
		{
			name:          "authenticated request succeeds",
			token:         "test-token",
			authStatus:    http.StatusOK,
			expectedNames: []string{"o-0", "o-1"},
			expectedCalls: 1,
		},
		{
			name:          "authenticated request fails and public retry succeeds",
			token:         "test-token",
			authStatus:    http.StatusForbidden,
			expectedNames: []string{"o-0", "o-1"},
			expectedCalls: 2,
		},
		{
			name:          "no token - no retry on failure",
			token:         "",
			authStatus:    http.StatusForbidden,
			expectError:   true,
			expectedCalls: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			handler := func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
				assert.Equal(t, "all", r.URL.Query().Get("type"))
				if r.Header.Get("Authorization") != "" || tc.token == "" {
					if tc.authStatus != http.StatusOK {
						w.WriteHeader(tc.authStatus)
						fmt.Fprint(w, `{"message":"forbidden"}`)
						return
					}
				}
				fmt.Fprint(w, repoPage("o", 3, 2))
			}
			gateway, server := setupTestGateway(t, tc.token, http.HandlerFunc(handler))
			defer server.Close()

			repos, err := gateway.FetchOrgRepos(context.Background(), "acme")
			assert.Equal(t, tc.expectedCalls, calls)
			if tc.expectError {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusForbidden, apiErr.Status)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(repos))
			for _, repo := range repos {
				names = append(names, repo.Name)
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestGitHubGateway_FetchOrganizations(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/orgs":
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			fmt.Fprint(w, `[{"login":"acme"},{"login":"tools"}]`)
		case "/users/me/orgs":
			assert.Empty(t, r.Header.Get("Authorization"))
			fmt.Fprint(w, `[{"login":"acme"},{"login":"public-only"}]`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}
	gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
	defer server.Close()

	viewerOrgs, err := gateway.FetchViewerOrgs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "tools"}, viewerOrgs)

	userOrgs, err := gateway.FetchUserOrgs(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "public-only"}, userOrgs)
}

func TestGitHubGateway_FetchReleases(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/tool/releases", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[
			{"name":"tool v2.0.0","tag_name":"v2.0.0","published_at":"2024-01-01T10:00:00Z","html_url":"https://github.com/me/tool/releases/v2.0.0"},
			{"name":null,"tag_name":"v1.9.0","published_at":"2023-06-01T10:00:00Z","html_url":"https://github.com/me/tool/releases/v1.9.0"},
			{"name":"draft","tag_name":"v3.0.0","published_at":null,"html_url":"https://github.com/me/tool/releases/draft"}
		]`)
	}
	gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
	defer server.Close()

	repo := domain.Repository{Name: "tool", FullName: "me/tool", URL: "https://github.com/me/tool", Description: "a tool"}
	releases, err := gateway.FetchReleases(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []domain.Release{
		{Repo: "tool", FullName: "me/tool", RepoURL: "https://github.com/me/tool", Description: "a tool", Release: "v2.0.0", PublishedAt: "2024-01-01", URL: "https://github.com/me/tool/releases/v2.0.0"},
		{Repo: "tool", FullName: "me/tool", RepoURL: "https://github.com/me/tool", Description: "a tool", Release: "v1.9.0", PublishedAt: "2023-06-01", URL: "https://github.com/me/tool/releases/v1.9.0"},
	}, releases)
}

func TestGitHubGateway_FetchViewer(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		fmt.Fprint(w, `{"login":"me","followers":1234,"created_at":"2015-03-04T05:06:07Z"}`)
	}
	gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
	defer server.Close()

	user, err := gateway.FetchViewer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", user.Login)
	assert.Equal(t, 1234, user.Followers)
	assert.True(t, user.CreatedAt.Equal(time.Date(2015, 3, 4, 5, 6, 7, 0, time.UTC)))
}

func TestGitHubGateway_FollowsRedirects(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/old/tool":
			http.Redirect(w, r, "/repos/new/tool", http.StatusMovedPermanently)
		case "/repos/new/tool":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
			fmt.Fprint(w, `{"full_name":"new/tool","stargazers_count":42,"forks_count":5}`)
		case "/repos/old/tool/releases":
			http.Redirect(w, r, "/repos/new/tool/releases?"+r.URL.RawQuery, http.StatusMovedPermanently)
		case "/repos/new/tool/releases":
			assert.Equal(t, "10", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[{"tag_name":"v1.0.0","published_at":"2024-01-01T10:00:00Z","html_url":"https://github.com/new/tool/releases/v1.0.0"}]`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}
	gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
	defer server.Close()

	stats, err := gateway.FetchRepoStats(context.Background(), "old/tool")
	require.NoError(t, err)
	assert.Equal(t, domain.RepoStats{Stars: 42, Forks: 5}, stats)

	releases, err := gateway.FetchReleases(context.Background(), domain.Repository{Name: "tool", FullName: "old/tool"})
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "v1.0.0", releases[0].Release)
	assert.Equal(t, "2024-01-01", releases[0].PublishedAt)
}

func TestGitHubGateway_APIErrors(t *testing.T) {
	testCases := []struct {
		name         string
		handlerFunc  http.HandlerFunc
		expectStatus int
		expectBody   string
		checkCause   func(t *testing.T, err error)
	}{
		{
			name: "not found keeps the go-github error response",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			},
			expectStatus: http.StatusNotFound,
			expectBody:   "Not Found",
			checkCause: func(t *testing.T, err error) {
				var errResp *github.ErrorResponse
				assert.True(t, errors.As(err, &errResp))
			},
		},
		{
			name: "exhausted rate limit keeps the go-github rate limit error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"API rate limit exceeded for me."}`)
			},
			expectStatus: http.StatusForbidden,
			expectBody:   "API rate limit exceeded for me.",
			checkCause: func(t *testing.T, err error) {
				var rateErr *github.RateLimitError
				assert.True(t, errors.As(err, &rateErr))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, "test-token", tc.handlerFunc)
			defer server.Close()

			_, err := gateway.FetchRepoStats(context.Background(), "me/tool")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to fetch repository me/tool")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.expectStatus, apiErr.Status)
			assert.Equal(t, http.StatusText(tc.expectStatus), apiErr.StatusText)
			assert.Equal(t, tc.expectBody, apiErr.Body)
			assert.Equal(t, "/repos/me/tool", apiErr.Path)
			tc.checkCause(t, err)
		})
	}
}

func TestGitHubGateway_SearchCounts(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		switch q := r.URL.Query().Get("q"); {
		case r.URL.Path == "/search/commits" && q == "author:me":
			fmt.Fprint(w, `{"total_count": 42, "items": []}`)
		case r.URL.Path == "/search/issues" && q == "author:me is:pr":
			fmt.Fprint(w, `{"total_count": 7, "items": []}`)
		case r.URL.Path == "/search/issues" && q == "author:me is:issue":
			fmt.Fprint(w, `{"total_count": 3, "items": []}`)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintf(w, `{"message":"unexpected query %s"}`, q)
		}
	}
	gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
	defer server.Close()

	ctx := context.Background()
	commits, err := gateway.SearchCommitCount(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 42, commits)

	prs, err := gateway.SearchIssueCount(ctx, "me", "is:pr")
	require.NoError(t, err)
	assert.Equal(t, 7, prs)

	issues, err := gateway.SearchIssueCount(ctx, "me", "is:issue")
	require.NoError(t, err)
	assert.Equal(t, 3, issues)
}

// TestGitHubGateway_FetchContributions covers the GraphQL path, including both error kinds.
func TestGitHubGateway_FetchContributions(t *testing.T) {
	testCases := []struct {
		name           string
		status         int
		responseBody   string
		expected       domain.ContributionWindow
		expectAPIError bool
		expectGQLError string
	}{
		{
			name:   "happy path",
			status: http.StatusOK,
			responseBody: `{"data":{"viewer":{"contributionsCollection":{
				"contributionCalendar":{"totalContributions":20},
				"totalCommitContributions":5,
				"totalPullRequestContributions":2,
				"totalIssueContributions":1,
				"totalPullRequestReviewContributions":0,
				"totalRepositoryContributions":0,
				"commitContributionsByRepository":[
					{"repository":{"nameWithOwner":"me/a"},"contributions":{"totalCount":5}},
					{"repository":{"nameWithOwner":"me/empty"},"contributions":{"totalCount":0}}
				],
				"pullRequestContributionsByRepository":[
					{"repository":{"nameWithOwner":"other/b"},"contributions":{"totalCount":2}}
				],
				"issueContributionsByRepository":[
					{"repository":{"nameWithOwner":"me/a"},"contributions":{"totalCount":1}}
				]
			}}}}`,
			expected: domain.ContributionWindow{
				Commits:       5,
				PRs:           2,
				Issues:        1,
				CalendarTotal: 20,
				Repositories:  map[string]struct{}{"me/a": {}, "other/b": {}},
			},
		},
		{
			name:           "error case - errors array",
			status:         http.StatusOK,
			responseBody:   `{"errors":[{"message":"Something went wrong"},{"message":"and again"}]}`,
			expectGQLError: "Something went wrong; and again",
		},
		{
			name:           "error case - non-2xx",
			status:         http.StatusBadGateway,
			responseBody:   `bad gateway`,
			expectAPIError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/graphql", r.URL.Path)
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "contributionsCollection(from: $from, to: $to)")
				assert.Contains(t, string(body), "2020-01-01T00:00:00Z")

				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, "test-token", http.HandlerFunc(handler))
			defer server.Close()

			from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			window, err := gateway.FetchContributions(context.Background(), from, from.AddDate(1, 0, 0))

			switch {
			case tc.expectGQLError != "":
				var gqlErr *GraphQLError
				require.True(t, errors.As(err, &gqlErr))
				assert.Equal(t, tc.expectGQLError, gqlErr.Error())
				assert.Contains(t, err.Error(), "failed to execute GraphQL query")
			case tc.expectAPIError:
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadGateway, apiErr.Status)
				assert.Equal(t, "bad gateway", apiErr.Body)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.expected, window)
			}
		})
	}
}
