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

// Package metadata types define the structures used for tracking and
// persisting information about manifest runs.
package metadata

import (
	"time"
)

// RunMetadata represents the complete metadata record for a single run. It
// captures what was requested, how many repositories passed each stage, and
// how much of the API was used.
type RunMetadata struct {
	TagpinVersion string     `json:"tagpin_version"`
	RunID         string     `json:"run_id"`
	Parameters    RunParams  `json:"parameters"`
	Results       RunResults `json:"results"`
}

// RunParams captures the input parameters used for a run.
type RunParams struct {
	Organization string `json:"organization"`
	Prefix       string `json:"prefix"`
	Output       string `json:"output"`
	APIEndpoint  string `json:"api_endpoint"`
	PageSize     int    `json:"page_size"`
}

// RunResults contains the statistics of a completed run.
type RunResults struct {
	RepositoriesListed   int       `json:"repositories_listed"`
	RepositoriesMatched  int       `json:"repositories_matched"`
	RepositoriesResolved int       `json:"repositories_resolved"`
	TagAPIErrors         int       `json:"tag_api_errors"`
	APICallCount         int       `json:"api_calls_made"`
	Success              bool      `json:"success"`
	Duration             string    `json:"run_duration"`
	StartedAt            time.Time `json:"started_at"`
	CompletedAt          time.Time `json:"completed_at"`
}
