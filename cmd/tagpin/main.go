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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
	"github.com/sirseerhq/tagpin/internal/giterror"
	"github.com/sirseerhq/tagpin/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tagpin",
		Short: "Pin GitHub repositories to their latest major release tag",
		Long: `tagpin lists the repositories of a GitHub organization, selects the latest
major release tag (v1, v2, ...) of every repository whose name starts with a
prefix, and writes a sorted manifest of <org>/<repo>@<tag> lines.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newSelectCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, tperrors.ErrInvalidConfig) ||
		errors.Is(err, tperrors.ErrMalformedResponse) {
		return 1
	}

	if errors.Is(err, tperrors.ErrOrgNotFound) ||
		errors.Is(err, tperrors.ErrRateLimit) ||
		errors.Is(err, tperrors.ErrAPIError) {
		return 2 // GitHub refused the request
	}

	if errors.Is(err, tperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	// Errors that reached us without a sentinel in the chain
	inspector := giterror.NewInspector()
	if inspector.IsAPIError(err) {
		return 2
	}
	if inspector.IsNetworkError(err) {
		return 3
	}

	return 1 // General error
}
