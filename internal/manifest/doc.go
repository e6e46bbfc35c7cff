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

// Package manifest models and writes the version manifest: a plain text file
// with one "<org>/<repo>@<tag>" line per repository, sorted case-insensitively
// by repository name.
//
// Example usage:
//
//	entries := []manifest.Entry{
//	    {Repository: "setup-python", Tag: "v5"},
//	    {Repository: "setup-node", Tag: "v4"},
//	}
//	manifest.Sort(entries)
//	if err := manifest.WriteFile("versions.txt", "actions", entries); err != nil {
//	    log.Fatal(err)
//	}
package manifest
