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

// Package release selects the latest major release tag from a list of tag
// names. Only tags of the exact form "v<digits>" (v1, v2, v10) qualify; the
// comparison is by integer value, so v10 ranks above v9.
//
// The package is network-agnostic: it operates purely on tag strings.
//
//	tag, ok := release.Latest([]string{"v9", "v10", "v2.1.0"})
//	// tag == "v10", ok == true
package release
