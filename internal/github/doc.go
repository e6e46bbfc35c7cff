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

// Package github provides a client for the GitHub REST API endpoints tagpin
// needs: the repository list of an organization and the tag list of a
// repository. It builds on github.com/google/go-github for request
// construction and error typing, and decodes every page itself so that an
// error object returned in place of a list is surfaced as an *APIError rather
// than a decode failure.
//
// The package includes:
//   - A Client interface for listing repositories and tags
//   - A REST implementation with page-number pagination
//   - An instrumented transport that reports request metrics
//   - A gomock-generated mock in the mocks subpackage
//
// Basic usage:
//
//	client, err := github.NewRESTClient(github.Options{
//	    BaseURL:  "https://api.github.com",
//	    PageSize: 100,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	repos, err := client.ListRepositories(ctx, "actions")
package github
