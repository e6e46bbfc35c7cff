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

package pipeline

// Reporter receives per-repository progress of a run. The CLI uses it to
// print interactive progress lines; it is independent of structured logging.
type Reporter interface {
	RepositoriesListed(org string, total, matched int)
	TagResolved(repo, tag string)
	TagMissing(repo string)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) RepositoriesListed(string, int, int) {}
func (NopReporter) TagResolved(string, string)          {}
func (NopReporter) TagMissing(string)                   {}
