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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrOrgNotFound indicates the organization does not exist or is not visible.
	// Maps to exit code 2.
	ErrOrgNotFound = errors.New("organization not found")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrAPIError indicates GitHub answered with an error object instead of data.
	// Maps to exit code 2.
	ErrAPIError = errors.New("github api error")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrMalformedResponse indicates a response body that is neither a list nor an error object.
	// Maps to exit code 1.
	ErrMalformedResponse = errors.New("malformed api response")

	// ErrInvalidConfig indicates the effective configuration failed validation.
	// Maps to exit code 1.
	ErrInvalidConfig = errors.New("invalid configuration")
)
