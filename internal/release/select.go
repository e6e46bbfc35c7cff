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

package release

import (
	"regexp"
	"strings"
)

// Exactly "v" followed by ASCII digits. No trimming, no suffixes, lowercase v only.
var majorTagRe = regexp.MustCompile(`^v([0-9]+)$`)

// Match reports whether tag has the form v<digits>.
func Match(tag string) bool {
	return majorTagRe.MatchString(tag)
}

// Number returns the digit run of a qualifying tag with leading zeros removed
// ("v007" -> "7", "v0" -> "0"). ok is false when tag does not qualify.
func Number(tag string) (digits string, ok bool) {
	m := majorTagRe.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	digits = strings.TrimLeft(m[1], "0")
	if digits == "" {
		digits = "0"
	}
	return digits, true
}

// Compare orders two normalized digit strings by integer value and returns
// -1, 0 or +1. It works for numbers of any length.
func Compare(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Latest returns the qualifying tag with the largest integer value.
// ok is false when no tag qualifies. When two tags have the same value
// (v1 and v01) the one that appears first wins.
func Latest(tags []string) (tag string, ok bool) {
	var best string
	for _, t := range tags {
		n, match := Number(t)
		if !match {
			continue
		}
		if !ok || Compare(n, best) > 0 {
			tag, best, ok = t, n, true
		}
	}
	return tag, ok
}
