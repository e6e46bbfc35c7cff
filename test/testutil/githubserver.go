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

// Package testutil provides common test helpers for tagpin
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// GitHubServer is an in-memory stand-in for the two GitHub REST endpoints
// tagpin calls. It honors per_page and page and records every request.
type GitHubServer struct {
	*httptest.Server

	mu        sync.Mutex
	org       string
	repos     []string
	tags      map[string][]string
	tagErrors map[string]string
	requests  []*http.Request
}

// NewGitHubServer creates a mock REST API serving org. It is closed when the
// test ends.
func NewGitHubServer(t *testing.T, org string) *GitHubServer {
	t.Helper()
	s := &GitHubServer{
		org:       org,
		tags:      make(map[string][]string),
		tagErrors: make(map[string]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetRepositories sets the organization's repository list in API order.
func (s *GitHubServer) SetRepositories(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos = append([]string(nil), names...)
}

// SetTags sets the tag list of repo in API order.
func (s *GitHubServer) SetTags(repo string, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[repo] = append([]string(nil), tags...)
}

// SetTagError makes the tags endpoint of repo answer with a 200 error object.
func (s *GitHubServer) SetTagError(repo, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagErrors[repo] = message
}

// RequestCount returns the number of requests served so far.
func (s *GitHubServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns copies of the requests served so far.
func (s *GitHubServer) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// TagRequests returns the repositories whose tags were requested, once per
// request, in order.
func (s *GitHubServer) TagRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var repos []string
	prefix := "/repos/" + s.org + "/"
	for _, r := range s.requests {
		if strings.HasPrefix(r.URL.Path, prefix) && strings.HasSuffix(r.URL.Path, "/tags") {
			repos = append(repos, strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/tags"))
		}
	}
	return repos
}

func (s *GitHubServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Clone(r.Context()))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if r.URL.Path == "/orgs/"+s.org+"/repos" {
		s.mu.Lock()
		names := paginateNames(s.repos, r)
		s.mu.Unlock()
		items := make([]map[string]any, 0, len(names))
		for _, name := range names {
			items = append(items, map[string]any{
				"name":      name,
				"full_name": s.org + "/" + name,
				"archived":  false,
				"fork":      false,
			})
		}
		_ = json.NewEncoder(w).Encode(items)
		return
	}

	prefix := "/repos/" + s.org + "/"
	if strings.HasPrefix(r.URL.Path, prefix) && strings.HasSuffix(r.URL.Path, "/tags") {
		repo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/tags")
		s.mu.Lock()
		msg, failing := s.tagErrors[repo]
		names := paginateNames(s.tags[repo], r)
		s.mu.Unlock()
		if failing {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message":           msg,
				"documentation_url": "https://docs.github.com/rest",
			})
			return
		}
		items := make([]map[string]any, 0, len(names))
		for _, name := range names {
			items = append(items, map[string]any{
				"name":   name,
				"commit": map[string]string{"sha": "0000000000000000000000000000000000000000"},
			})
		}
		_ = json.NewEncoder(w).Encode(items)
		return
	}

	WriteAPIError(w, http.StatusNotFound, "Not Found")
}

// WriteAPIError writes a GitHub style error object with the given status.
func WriteAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

func paginateNames(all []string, r *http.Request) []string {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage <= 0 {
		perPage = 30
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
