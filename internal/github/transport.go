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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sirseerhq/tagpin/internal/logging"
	"github.com/sirseerhq/tagpin/internal/metrics"
)

// maxResponseBytes caps a single response body.
const maxResponseBytes = 10 * 1024 * 1024

var errResponseTooLarge = errors.New("response size exceeded limit")

// newPooledTransport creates the default transport with connection pooling.
func newPooledTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// instrumentedTransport reports every round trip to the metrics recorder
// and limits response body size.
type instrumentedTransport struct {
	base     http.RoundTripper
	recorder metrics.Recorder
	logger   *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	endpoint := endpointFor(req.URL.Path)
	start := time.Now()

	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.logger.Debug("GitHub API request failed",
			slog.String("url", req.URL.String()),
			logging.DurationMS(float64(elapsed)/float64(time.Millisecond)),
			logging.Error(err))
		return nil, err
	}

	t.recorder.ObserveRequest(endpoint, resp.StatusCode, elapsed)
	t.logger.Debug("GitHub API request",
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.String("ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining")),
		logging.DurationMS(float64(elapsed)/float64(time.Millisecond)))

	if resp.Body != nil {
		resp.Body = &limitedReader{ReadCloser: resp.Body, limit: maxResponseBytes}
	}
	return resp, nil
}

// endpointFor maps a request path to the metrics endpoint label.
func endpointFor(path string) string {
	switch {
	case strings.HasSuffix(path, "/tags"):
		return metrics.EndpointRepoTags
	case strings.Contains(path, "/orgs/") && strings.HasSuffix(path, "/repos"):
		return metrics.EndpointOrgRepos
	default:
		return metrics.EndpointOther
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("%w of %d bytes", errResponseTooLarge, lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
