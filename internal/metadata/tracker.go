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

// Package metadata provides functionality for tracking and persisting metadata
// about manifest runs. It records how many repositories were listed, matched
// and resolved, how many API calls were made, and how long the run took.
//
// A Tracker is a metrics.Recorder, so it is fed by the same calls that drive
// the Prometheus metrics. Metadata is saved as a JSON file that external
// tools can read to monitor scheduled runs.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirseerhq/tagpin/internal/metrics"
)

// Tracker collects statistics during a run and generates metadata. Create a
// new tracker at the start of each run and pass it wherever a
// metrics.Recorder is accepted.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	tagAPIErrors int
	repositories map[string]int
	success      bool
}

var _ metrics.Recorder = (*Tracker)(nil)

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime:    time.Now(),
		repositories: make(map[string]int),
	}
}

// ObserveRequest records that an API call was made.
func (t *Tracker) ObserveRequest(string, int, time.Duration) {
	t.apiCallCount++
}

// IncAPIError records a tag listing answered with an error object.
func (t *Tracker) IncAPIError(endpoint string) {
	if endpoint == metrics.EndpointRepoTags {
		t.tagAPIErrors++
	}
}

// SetRepositories records the repository count reached at a stage.
func (t *Tracker) SetRepositories(stage string, n int) {
	t.repositories[stage] = n
}

// ObserveRun records the outcome of the run.
func (t *Tracker) ObserveRun(_ time.Duration, success bool) {
	t.success = success
}

// GenerateMetadata creates a RunMetadata instance capturing the complete run
// statistics. Call this at the end of a run.
func (t *Tracker) GenerateMetadata(tagpinVersion string, params RunParams) *RunMetadata {
	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	return &RunMetadata{
		TagpinVersion: tagpinVersion,
		RunID:         fmt.Sprintf("%s-%d", params.Organization, t.startTime.Unix()),
		Parameters:    params,
		Results: RunResults{
			RepositoriesListed:   t.repositories[metrics.StageListed],
			RepositoriesMatched:  t.repositories[metrics.StageMatched],
			RepositoriesResolved: t.repositories[metrics.StageResolved],
			TagAPIErrors:         t.tagAPIErrors,
			APICallCount:         t.apiCallCount,
			Success:              t.success,
			Duration:             duration.String(),
			StartedAt:            t.startTime,
			CompletedAt:          completedAt,
		},
	}
}

// SaveMetadata persists a RunMetadata record as JSON at path. The file is
// written atomically using a temporary file and rename to prevent corruption.
func SaveMetadata(metadata *RunMetadata, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	// Write to temporary file first for atomicity
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	tmpFile := file.Name()

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// WriteMetadataToWriter serializes metadata to JSON and writes it to the
// provided io.Writer. The output is formatted with indentation for readability.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
