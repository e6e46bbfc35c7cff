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
	"fmt"
	"net/http"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
	"github.com/sirseerhq/tagpin/internal/metrics"
)

// Repository is the subset of GitHub's repository object tagpin carries.
// Only Name takes part in selection.
type Repository struct {
	Name     string
	FullName string
	Archived bool
	Fork     bool
}

// APIError is an error object GitHub returned in place of a list, either as
// the body of a successful reply or as a non-2xx reply.
type APIError struct {
	Endpoint         string
	StatusCode       int
	Message          string
	DocumentationURL string
	RateLimited      bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("github api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github api error: %s", e.Message)
}

// Is lets callers match an APIError against the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case tperrors.ErrAPIError:
		return true
	case tperrors.ErrRateLimit:
		return e.RateLimited
	case tperrors.ErrOrgNotFound:
		return e.Endpoint == metrics.EndpointOrgRepos && e.StatusCode == http.StatusNotFound
	}
	return false
}

// pageResult is the decoded form of one page: either items or the error
// object GitHub sent instead. An empty page has neither.
type pageResult[T any] struct {
	Items    []T
	APIError *APIError
}
