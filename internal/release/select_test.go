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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tags   []string
		want   string
		wantOK bool
	}{
		{name: "mixed tags", tags: []string{"v1", "v2", "v3", "v10", "v2.1.0"}, want: "v10", wantOK: true},
		{name: "numeric not lexicographic", tags: []string{"v9", "v10", "v2", "v1"}, want: "v10", wantOK: true},
		{name: "no qualifying tags", tags: []string{"v1.0.0", "v2.0.0", "release-1"}, wantOK: false},
		{name: "empty list", tags: []string{}, wantOK: false},
		{name: "nil list", tags: nil, wantOK: false},
		{name: "single tag", tags: []string{"v0"}, want: "v0", wantOK: true},
		{name: "qualifying tag among noise", tags: []string{"latest", "v3-rc1", "v3", "V4"}, want: "v3", wantOK: true},
		{name: "equal value keeps first", tags: []string{"v01", "v1"}, want: "v01", wantOK: true},
		{name: "leading zeros compare by value", tags: []string{"v010", "v9"}, want: "v010", wantOK: true},
		{
			name:   "beyond uint64",
			tags:   []string{"v18446744073709551615", "v18446744073709551616", "v99"},
			want:   "v18446744073709551616",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Latest(tt.tags)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"v1", "v2", "v10", "v100", "v999", "v0", "v007"} {
		assert.True(t, Match(tag), "%q should match", tag)
	}

	invalid := []string{
		"v1.0",
		"v1.0.0",
		"v1-beta",
		"1.0",
		"release-1",
		"v",
		"v1a",
		"V1",
		" v1",
		"v1 ",
		"",
		"v1\n",
		"vv1",
		"v١",
	}
	for _, tag := range invalid {
		assert.False(t, Match(tag), "%q should not match", tag)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{"v7", "7", true},
		{"v007", "7", true},
		{"v0", "0", true},
		{"v000", "0", true},
		{"v12", "12", true},
		{"v1.2", "", false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.tag)
		assert.Equal(t, tt.wantOK, ok, tt.tag)
		assert.Equal(t, tt.want, got, tt.tag)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Compare("10", "9"))
	assert.Equal(t, -1, Compare("9", "10"))
	assert.Equal(t, 0, Compare("42", "42"))
	assert.Equal(t, 1, Compare("43", "42"))
	assert.Equal(t, 1, Compare(strings.Repeat("9", 30), strings.Repeat("9", 29)))
}
