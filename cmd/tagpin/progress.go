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
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// progressReporter prints one line per repository to stderr, in the form
// "Fetching tags for setup-go... v5".
type progressReporter struct {
	w      io.Writer
	found  *color.Color
	absent *color.Color
}

func newProgressReporter(w io.Writer, colorEnabled bool) *progressReporter {
	found := color.New(color.FgGreen)
	absent := color.New(color.FgYellow)
	if colorEnabled {
		found.EnableColor()
		absent.EnableColor()
	} else {
		found.DisableColor()
		absent.DisableColor()
	}
	return &progressReporter{w: w, found: found, absent: absent}
}

func (p *progressReporter) RepositoriesListed(org string, total, matched int) {
	fmt.Fprintf(p.w, "Found %d repositories in %s, %d matching\n", total, org, matched)
}

func (p *progressReporter) TagResolved(repo, tag string) {
	fmt.Fprintf(p.w, "Fetching tags for %s... %s\n", repo, p.found.Sprint(tag))
}

func (p *progressReporter) TagMissing(repo string) {
	fmt.Fprintf(p.w, "Fetching tags for %s... %s\n", repo, p.absent.Sprint("no vN tag"))
}

// isTerminal reports whether w is a terminal that honors color. NO_COLOR in
// the environment disables color as well.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
