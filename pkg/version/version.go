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

// Package version holds build information injected at link time:
//
//	go build -ldflags "-X github.com/sirseerhq/tagpin/pkg/version.Version=v1.2.0"
package version

// Version is the released version of tagpin, or "dev" for local builds.
var Version = "dev"

// UserAgent returns the User-Agent sent on every GitHub API request.
func UserAgent() string {
	return "tagpin/" + Version
}
