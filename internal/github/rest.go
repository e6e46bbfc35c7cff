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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
	"github.com/sirseerhq/tagpin/internal/giterror"
	"github.com/sirseerhq/tagpin/internal/logging"
	"github.com/sirseerhq/tagpin/internal/metrics"
	"github.com/sirseerhq/tagpin/pkg/version"
)

const (
	// DefaultPageSize is the largest page the REST API serves.
	DefaultPageSize = 100

	acceptHeader = "application/vnd.github+json"
)

// Options configures a RESTClient. Zero values select defaults.
type Options struct {
	// BaseURL is the REST API root, e.g. https://api.github.com or
	// https://ghe.example.com/api/v3.
	BaseURL string

	// PageSize is sent as per_page and decides when pagination stops.
	PageSize int

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	Logger   *slog.Logger
	Recorder metrics.Recorder

	// Transport replaces the pooled default transport, mainly for tests.
	Transport http.RoundTripper
}

// RESTClient implements Client against the GitHub REST v3 API. Requests are
// issued one at a time; the client holds no per-run state.
type RESTClient struct {
	api       *gh.Client
	pageSize  int
	logger    *slog.Logger
	recorder  metrics.Recorder
	inspector giterror.Inspector
}

// NewRESTClient creates a new GitHub REST client. No credentials are sent.
// The client is configured with:
//   - Custom API root (e.g., for GitHub Enterprise or tests)
//   - Per-request timeout
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Request metrics reported to the recorder
func NewRESTClient(opts Options) (*RESTClient, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	base := opts.Transport
	if base == nil {
		base = newPooledTransport()
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &instrumentedTransport{
			base:     base,
			recorder: opts.Recorder,
			logger:   opts.Logger,
		},
	}

	api := gh.NewClient(httpClient)
	api.UserAgent = version.UserAgent()
	if opts.BaseURL != "" {
		u, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		api.BaseURL = u
	}

	return &RESTClient{
		api:       api,
		pageSize:  opts.PageSize,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
		inspector: giterror.NewInspector(),
	}, nil
}

// parseBaseURL validates the API root and adds the trailing slash go-github
// requires for relative request paths.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API endpoint %q: must be an absolute URL", raw)
	}
	return u, nil
}

// ListRepositories retrieves every repository of org, deduplicated by name
// with the first occurrence kept.
func (c *RESTClient) ListRepositories(ctx context.Context, org string) ([]Repository, error) {
	path := fmt.Sprintf("orgs/%s/repos", url.PathEscape(org))
	fetch := func(ctx context.Context, page int) (pageResult[*gh.Repository], error) {
		return getPage[*gh.Repository](ctx, c, metrics.EndpointOrgRepos, path, page)
	}

	items, apiErr, err := paginate(ctx, c.pageSize, fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}
	if apiErr != nil {
		c.recorder.IncAPIError(metrics.EndpointOrgRepos)
		return nil, c.mapListError(org, apiErr)
	}

	seen := make(map[string]struct{}, len(items))
	repos := make([]Repository, 0, len(items))
	for _, item := range items {
		name := item.GetName()
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			c.logger.Debug("Skipping repeated repository", logging.Repository(name))
			continue
		}
		seen[name] = struct{}{}
		repos = append(repos, Repository{
			Name:     name,
			FullName: item.GetFullName(),
			Archived: item.GetArchived(),
			Fork:     item.GetFork(),
		})
	}
	return repos, nil
}

// ListTags retrieves the tag names of org/repo. When GitHub answers any page
// with an error object the tags gathered so far are discarded, a warning is
// logged, and an empty slice is returned.
func (c *RESTClient) ListTags(ctx context.Context, org, repo string) ([]string, error) {
	path := fmt.Sprintf("repos/%s/%s/tags", url.PathEscape(org), url.PathEscape(repo))
	fetch := func(ctx context.Context, page int) (pageResult[*gh.RepositoryTag], error) {
		return getPage[*gh.RepositoryTag](ctx, c, metrics.EndpointRepoTags, path, page)
	}

	items, apiErr, err := paginate(ctx, c.pageSize, fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s/%s: %w", org, repo, err)
	}
	if apiErr != nil {
		c.recorder.IncAPIError(metrics.EndpointRepoTags)
		c.logger.Warn("GitHub API error while fetching tags",
			logging.Repository(repo),
			logging.APIMessage(apiErr.Message),
			slog.Int("status", apiErr.StatusCode))
		return []string{}, nil
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil || item.Name == nil {
			continue
		}
		tags = append(tags, item.GetName())
	}
	return tags, nil
}

// mapListError maps a listing error object to our domain errors with
// actionable messages.
func (c *RESTClient) mapListError(org string, apiErr *APIError) error {
	switch {
	case apiErr.RateLimited:
		return fmt.Errorf("GitHub API rate limit exceeded while listing %s: %w", org, apiErr)
	case apiErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("organization '%s' not found. Please check the organization name: %w", org, apiErr)
	default:
		return fmt.Errorf("failed to list repositories for %s: %w", org, apiErr)
	}
}

// getPage issues one GET for the given page and decodes the reply.
func getPage[T any](ctx context.Context, c *RESTClient, endpoint, path string, page int) (pageResult[T], error) {
	u := fmt.Sprintf("%s?per_page=%d&page=%d", path, c.pageSize, page)
	req, err := c.api.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return pageResult[T]{}, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", acceptHeader)
	c.logger.Debug("Requesting page", slog.String("endpoint", endpoint), logging.Page(page))

	var body bytes.Buffer
	if _, err := c.api.Do(ctx, req, &body); err != nil {
		if apiErr := c.apiErrorFrom(endpoint, err); apiErr != nil {
			return pageResult[T]{APIError: apiErr}, nil
		}
		if errors.Is(err, errResponseTooLarge) {
			return pageResult[T]{}, fmt.Errorf("GET %s page %d: %w: %w", path, page, tperrors.ErrMalformedResponse, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return pageResult[T]{}, fmt.Errorf("GET %s page %d: %w", path, page, ctxErr)
		}
		return pageResult[T]{}, fmt.Errorf("GET %s page %d: %w: %w", path, page, tperrors.ErrNetworkFailure, err)
	}

	res, err := decodePage[T](endpoint, body.Bytes())
	if err != nil {
		return pageResult[T]{}, fmt.Errorf("GET %s page %d: %w", path, page, err)
	}
	return res, nil
}

// apiErrorFrom converts the typed errors go-github returns for non-2xx
// replies. Other errors yield nil.
func (c *RESTClient) apiErrorFrom(endpoint string, err error) *APIError {
	msg, ok := giterror.MessageOf(err)
	if !ok {
		return nil
	}
	status := giterror.StatusOf(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	apiErr := &APIError{
		Endpoint:    endpoint,
		StatusCode:  status,
		Message:     msg,
		RateLimited: c.inspector.IsRateLimitError(err),
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		apiErr.DocumentationURL = respErr.DocumentationURL
	}
	return apiErr
}

// decodePage classifies a 2xx body by its first significant byte: a JSON
// array is a page of items, an object is an error object, and an empty body
// or null is an empty page.
func decodePage[T any](endpoint string, body []byte) (pageResult[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return pageResult[T]{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return pageResult[T]{}, fmt.Errorf("%w: %w", tperrors.ErrMalformedResponse, err)
		}
		return pageResult[T]{Items: items}, nil
	case '{':
		var obj struct {
			Message          string `json:"message"`
			DocumentationURL string `json:"documentation_url"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return pageResult[T]{}, fmt.Errorf("%w: %w", tperrors.ErrMalformedResponse, err)
		}
		if obj.Message == "" {
			return pageResult[T]{}, fmt.Errorf("%w: object without message", tperrors.ErrMalformedResponse)
		}
		return pageResult[T]{APIError: &APIError{
			Endpoint:         endpoint,
			StatusCode:       http.StatusOK,
			Message:          obj.Message,
			DocumentationURL: obj.DocumentationURL,
			RateLimited:      giterror.IsRateLimitMessage(obj.Message),
		}}, nil
	default:
		return pageResult[T]{}, fmt.Errorf("%w: unexpected body starting with %q", tperrors.ErrMalformedResponse, trimmed[0])
	}
}
