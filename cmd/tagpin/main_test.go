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

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
	"github.com/sirseerhq/tagpin/pkg/version"
)

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid config", fmt.Errorf("%w: page size must be between 1 and 100", tperrors.ErrInvalidConfig), 1},
		{"malformed response", fmt.Errorf("GET orgs/actions/repos page 1: %w", tperrors.ErrMalformedResponse), 1},
		{"org not found", fmt.Errorf("organization 'nope' not found: %w", tperrors.ErrOrgNotFound), 2},
		{"rate limit", fmt.Errorf("listing: %w", tperrors.ErrRateLimit), 2},
		{"api error", fmt.Errorf("listing: %w", tperrors.ErrAPIError), 2},
		{"network", fmt.Errorf("GET: %w: %w", tperrors.ErrNetworkFailure, errors.New("connection refused")), 3},
		{"untyped url error", &url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("EOF")}, 3},
		{"untyped rate limit text", errors.New("API rate limit exceeded"), 2},
		{"canceled", context.Canceled, 1},
		{"generic", errors.New("something else"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := out.String(), "tagpin "+version.Version+"\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSelectCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "numeric ordering",
			input: "v9\nv10\nv2\nv1\n",
			want:  "v10\n",
		},
		{
			name:  "ignores non release tags",
			input: "v1.0.0\nv3\nrelease-7\nlatest\n",
			want:  "v3\n",
		},
		{
			name:    "no qualifying tag",
			input:   "v1.0.0\nv2.0.0\nrelease-1\n",
			wantErr: errNoReleaseTag,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: errNoReleaseTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := newRootCommand()
			root.SetIn(strings.NewReader(tt.input))
			root.SetOut(&out)
			root.SetArgs([]string{"select"})

			err := root.Execute()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
			if tt.wantErr != nil && mapErrorToExitCode(err) != 1 {
				t.Errorf("exit code = %d, want 1", mapErrorToExitCode(err))
			}
		})
	}
}
