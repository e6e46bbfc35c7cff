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
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/tagpin/internal/release"
)

var errNoReleaseTag = errors.New("no vN release tag in input")

func newSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Print the latest vN tag from a list of tags on stdin",
		Long: `Read tag names from standard input, one per line, and print the latest
major release tag. Only tags of the exact form v<digits> qualify; v10 is newer
than v9. Exits with status 1 when no line qualifies.

Example:
  git tag --list | tagpin select`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tags []string
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				tags = append(tags, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read tags: %w", err)
			}

			tag, ok := release.Latest(tags)
			if !ok {
				return errNoReleaseTag
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}
}
