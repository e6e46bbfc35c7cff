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

package manifest

import (
	"fmt"
	"slices"
	"strings"
)

// Entry pairs a repository with its selected release tag.
type Entry struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

// Line renders the entry as "<org>/<repo>@<tag>" without a trailing newline.
func (e Entry) Line(org string) string {
	return fmt.Sprintf("%s/%s@%s", org, e.Repository, e.Tag)
}

// Sort orders entries by lower-cased repository name. The sort is stable, so
// names that differ only in case keep their input order.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Repository), strings.ToLower(b.Repository))
	})
}
