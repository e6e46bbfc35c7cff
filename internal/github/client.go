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

import "context"

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// ListRepositories returns every repository of the organization, in the
	// order the API lists them, with repeated names dropped. Any failure,
	// including an API error object, is returned as an error.
	ListRepositories(ctx context.Context, org string) ([]Repository, error)

	// ListTags returns the tag names of one repository in pagination order.
	// An API error object is logged and yields an empty slice with a nil
	// error; transport failures and malformed bodies are returned.
	ListTags(ctx context.Context, org, repo string) ([]string, error)
}
