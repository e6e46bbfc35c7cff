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

// Package main implements the tagpin command-line interface.
// This tool lists the repositories of a GitHub organization, keeps those
// whose name starts with a prefix, and writes a manifest pinning each one
// to its latest major release tag (vN).
//
// The CLI supports:
//   - Generating the manifest to a file or to stdout (--output -)
//   - Configuration through flags, TAGPIN_* environment variables, or a
//     .tagpin.yaml file
//   - Optional Prometheus textfile metrics and a JSON run-metadata record
//   - Selecting the latest vN tag from a list on stdin (select)
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	tagpin generate [flags]
//
// Example:
//
//	tagpin generate --org actions --prefix setup- --output versions.txt
//
// Exit codes:
//   - 0: Success
//   - 1: General or configuration error
//   - 2: GitHub refused the request (organization not found, rate limit, API error)
//   - 3: Network error
package main
