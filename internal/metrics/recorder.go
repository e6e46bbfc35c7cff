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

// Package metrics records run statistics for tagpin. The Prometheus
// implementation can be exported in the node-exporter textfile format after
// a run, which suits a tool that runs from cron or CI rather than as a server.
package metrics

import "time"

// Endpoint labels for API request metrics.
const (
	EndpointOrgRepos = "org_repos"
	EndpointRepoTags = "repo_tags"
	EndpointOther    = "other"
)

// Repository stage labels.
const (
	StageListed   = "listed"
	StageMatched  = "matched"
	StageResolved = "resolved"
)

// Recorder defines observability hooks for a manifest run.
type Recorder interface {
	ObserveRequest(endpoint string, status int, d time.Duration)
	IncAPIError(endpoint string)
	SetRepositories(stage string, n int)
	ObserveRun(d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, int, time.Duration) {}
func (NoopRecorder) IncAPIError(string)                        {}
func (NoopRecorder) SetRepositories(string, int)               {}
func (NoopRecorder) ObserveRun(time.Duration, bool)            {}

// multi fans every call out to several recorders.
type multi []Recorder

// Multi returns a Recorder that forwards to each non-nil recorder in order.
func Multi(recorders ...Recorder) Recorder {
	var m multi
	for _, r := range recorders {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multi) ObserveRequest(endpoint string, status int, d time.Duration) {
	for _, r := range m {
		r.ObserveRequest(endpoint, status, d)
	}
}

func (m multi) IncAPIError(endpoint string) {
	for _, r := range m {
		r.IncAPIError(endpoint)
	}
}

func (m multi) SetRepositories(stage string, n int) {
	for _, r := range m {
		r.SetRepositories(stage, n)
	}
}

func (m multi) ObserveRun(d time.Duration, success bool) {
	for _, r := range m {
		r.ObserveRun(d, success)
	}
}
