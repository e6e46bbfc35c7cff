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

// paginate requests pages 1, 2, ... until a page is empty or shorter than
// pageSize. A page carrying an API error object stops the walk; the items
// collected so far are returned alongside it.
func paginate[T any](ctx context.Context, pageSize int, fetch func(ctx context.Context, page int) (pageResult[T], error)) ([]T, *APIError, error) {
	var all []T
	for page := 1; ; page++ {
		res, err := fetch(ctx, page)
		if err != nil {
			return nil, nil, err
		}
		if res.APIError != nil {
			return all, res.APIError, nil
		}
		if len(res.Items) == 0 {
			return all, nil, nil
		}
		all = append(all, res.Items...)
		if len(res.Items) < pageSize {
			return all, nil, nil
		}
	}
}
