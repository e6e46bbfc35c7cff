// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
	"github.com/sirseerhq/tagpin/internal/metrics"
	"github.com/sirseerhq/tagpin/pkg/version"
	"github.com/sirseerhq/tagpin/test/testutil"
)

type countingRecorder struct {
	metrics.NoopRecorder

	mu        sync.Mutex
	requests  map[string]int
	apiErrors map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{requests: map[string]int{}, apiErrors: map[string]int{}}
}

func (r *countingRecorder) ObserveRequest(endpoint string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[endpoint]++
}

func (r *countingRecorder) IncAPIError(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apiErrors[endpoint]++
}

func newTestClient(t *testing.T, baseURL string, opts ...func(*Options)) *RESTClient {
	t.Helper()
	o := Options{BaseURL: baseURL, PageSize: 100, Timeout: 5 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	client, err := NewRESTClient(o)
	require.NoError(t, err)
	return client
}

func repoNames(n int, prefix string) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return names
}

func TestListRepositories_Pagination(t *testing.T) {
	tests := []struct {
		name         string
		repos        int
		wantRequests int
	}{
		{name: "full page then short page", repos: 101, wantRequests: 2},
		{name: "single short page", repos: 1, wantRequests: 1},
		{name: "exactly one full page", repos: 100, wantRequests: 2},
		{name: "empty organization", repos: 0, wantRequests: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewGitHubServer(t, "actions")
			server.SetRepositories(repoNames(tt.repos, "repo-")...)

			client := newTestClient(t, server.URL)
			repos, err := client.ListRepositories(context.Background(), "actions")
			require.NoError(t, err)

			assert.Len(t, repos, tt.repos)
			assert.Equal(t, tt.wantRequests, server.RequestCount())
		})
	}
}

func TestListRepositories_RequestShape(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	server.SetRepositories("checkout", "setup-go")

	client := newTestClient(t, server.URL+"/")
	repos, err := client.ListRepositories(context.Background(), "actions")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, Repository{Name: "checkout", FullName: "actions/checkout"}, repos[0])

	reqs := server.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/orgs/actions/repos", req.URL.Path)
	assert.Equal(t, "100", req.URL.Query().Get("per_page"))
	assert.Equal(t, "1", req.URL.Query().Get("page"))
	assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
	assert.Equal(t, version.UserAgent(), req.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestListRepositories_CustomPageSize(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	server.SetRepositories(repoNames(5, "r")...)

	client := newTestClient(t, server.URL, func(o *Options) { o.PageSize = 2 })
	repos, err := client.ListRepositories(context.Background(), "actions")
	require.NoError(t, err)

	assert.Len(t, repos, 5)
	assert.Equal(t, 3, server.RequestCount())
}

func TestListRepositories_DeduplicatesShiftedPages(t *testing.T) {
	// Page 2 repeats the last entry of page 1, as happens when a repository
	// is created between the two requests.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[{"name":"a"},{"name":"b"}]`)
		default:
			fmt.Fprint(w, `[{"name":"b"}]`)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, func(o *Options) { o.PageSize = 2 })
	repos, err := client.ListRepositories(context.Background(), "actions")
	require.NoError(t, err)

	require.Len(t, repos, 2)
	assert.Equal(t, "a", repos[0].Name)
	assert.Equal(t, "b", repos[1].Name)
}

func TestListRepositories_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantIs  []error
		wantNot []error
	}{
		{
			name: "organization not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteAPIError(w, http.StatusNotFound, "Not Found")
			},
			wantIs:  []error{tperrors.ErrOrgNotFound, tperrors.ErrAPIError},
			wantNot: []error{tperrors.ErrRateLimit, tperrors.ErrNetworkFailure},
		},
		{
			name: "primary rate limit",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
				testutil.WriteAPIError(w, http.StatusForbidden, "API rate limit exceeded for 203.0.113.7.")
			},
			wantIs:  []error{tperrors.ErrRateLimit, tperrors.ErrAPIError},
			wantNot: []error{tperrors.ErrOrgNotFound},
		},
		{
			name: "error object with success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"message":"Server Error"}`)
			},
			wantIs:  []error{tperrors.ErrAPIError},
			wantNot: []error{tperrors.ErrRateLimit, tperrors.ErrOrgNotFound},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `<html>bad gateway</html>`)
			},
			wantIs:  []error{tperrors.ErrMalformedResponse},
			wantNot: []error{tperrors.ErrAPIError},
		},
		{
			name: "truncated list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `[{"name":"a"},`)
			},
			wantIs: []error{tperrors.ErrMalformedResponse},
		},
		{
			name: "object without message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"name":"a"}`)
			},
			wantIs: []error{tperrors.ErrMalformedResponse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			recorder := newCountingRecorder()
			client := newTestClient(t, srv.URL, func(o *Options) { o.Recorder = recorder })
			repos, err := client.ListRepositories(context.Background(), "actions")

			require.Error(t, err)
			assert.Nil(t, repos)
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, err, target)
			}
			for _, target := range tt.wantNot {
				assert.NotErrorIs(t, err, target)
			}
			assert.Equal(t, 1, recorder.requests[metrics.EndpointOrgRepos])
		})
	}
}

func TestListRepositories_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	_, err := client.ListRepositories(context.Background(), "actions")

	require.Error(t, err)
	assert.ErrorIs(t, err, tperrors.ErrNetworkFailure)
	assert.NotErrorIs(t, err, tperrors.ErrAPIError)
}

func TestListRepositories_ContextCanceled(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL)
	_, err := client.ListRepositories(ctx, "actions")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, server.RequestCount())
}

func TestListTags(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	server.SetTags("setup-go", "v5.0.0", "v5", "v4", "latest")

	client := newTestClient(t, server.URL)
	tags, err := client.ListTags(context.Background(), "actions", "setup-go")
	require.NoError(t, err)

	assert.Equal(t, []string{"v5.0.0", "v5", "v4", "latest"}, tags)
	require.Len(t, server.Requests(), 1)
	assert.Equal(t, "/repos/actions/setup-go/tags", server.Requests()[0].URL.Path)
}

func TestListTags_Pagination(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	tags := repoNames(101, "v")
	server.SetTags("cache", tags...)

	client := newTestClient(t, server.URL)
	got, err := client.ListTags(context.Background(), "actions", "cache")
	require.NoError(t, err)

	assert.Equal(t, tags, got)
	assert.Equal(t, 2, server.RequestCount())
}

func TestListTags_ErrorObjectYieldsEmpty(t *testing.T) {
	server := testutil.NewGitHubServer(t, "actions")
	server.SetTags("setup-node", "v4")
	server.SetTagError("setup-node", "API rate limit exceeded for 203.0.113.7.")

	var logs bytes.Buffer
	recorder := newCountingRecorder()
	client := newTestClient(t, server.URL, func(o *Options) {
		o.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		o.Recorder = recorder
	})

	tags, err := client.ListTags(context.Background(), "actions", "setup-node")
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "repository=setup-node")
	assert.Contains(t, logs.String(), "API rate limit exceeded")
	assert.Equal(t, 1, recorder.apiErrors[metrics.EndpointRepoTags])
}

func TestListTags_ErrorStatusYieldsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
				testutil.WriteAPIError(w, http.StatusForbidden, "API rate limit exceeded")
			},
		},
		{
			name: "repository gone",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteAPIError(w, http.StatusNotFound, "Not Found")
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteAPIError(w, http.StatusBadGateway, "Server Error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			tags, err := client.ListTags(context.Background(), "actions", "setup-node")
			require.NoError(t, err)
			assert.Empty(t, tags)
		})
	}
}

func TestListTags_ErrorOnLaterPageDiscardsEarlierTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `[{"name":"v1"},{"name":"v2"}]`)
			return
		}
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, func(o *Options) { o.PageSize = 2 })
	tags, err := client.ListTags(context.Background(), "actions", "setup-node")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestListTags_FatalFailures(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `"v1"`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL)
		_, err := client.ListTags(context.Background(), "actions", "setup-node")
		assert.ErrorIs(t, err, tperrors.ErrMalformedResponse)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := newTestClient(t, url)
		_, err := client.ListTags(context.Background(), "actions", "setup-node")
		assert.ErrorIs(t, err, tperrors.ErrNetworkFailure)
	})

	t.Run("request timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, func(o *Options) { o.Timeout = 50 * time.Millisecond })
		_, err := client.ListTags(context.Background(), "actions", "setup-node")
		assert.ErrorIs(t, err, tperrors.ErrNetworkFailure)
	})
}

func TestListTags_EmptyBodies(t *testing.T) {
	for _, body := range []string{"", "null", "[]", "  \n"} {
		t.Run(strconv.Quote(body), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			tags, err := client.ListTags(context.Background(), "actions", "setup-node")
			require.NoError(t, err)
			assert.Empty(t, tags)
		})
	}
}

func TestNewRESTClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"api.github.com", "://bad", "/relative"} {
		_, err := NewRESTClient(Options{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestAPIError(t *testing.T) {
	notFound := &APIError{Endpoint: metrics.EndpointOrgRepos, StatusCode: http.StatusNotFound, Message: "Not Found"}
	assert.ErrorIs(t, notFound, tperrors.ErrOrgNotFound)
	assert.ErrorIs(t, notFound, tperrors.ErrAPIError)
	assert.NotErrorIs(t, notFound, tperrors.ErrRateLimit)
	assert.Equal(t, "github api error (404): Not Found", notFound.Error())

	tagsGone := &APIError{Endpoint: metrics.EndpointRepoTags, StatusCode: http.StatusNotFound, Message: "Not Found"}
	assert.NotErrorIs(t, tagsGone, tperrors.ErrOrgNotFound)

	inBody := &APIError{Endpoint: metrics.EndpointRepoTags, StatusCode: http.StatusOK, Message: "API rate limit exceeded", RateLimited: true}
	assert.ErrorIs(t, inBody, tperrors.ErrRateLimit)
	assert.Equal(t, "github api error: API rate limit exceeded", inBody.Error())
}
