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

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sirseerhq/tagpin/internal/config"
	"github.com/sirseerhq/tagpin/internal/github"
	"github.com/sirseerhq/tagpin/internal/logging"
	"github.com/sirseerhq/tagpin/internal/manifest"
	"github.com/sirseerhq/tagpin/internal/metrics"
	"github.com/sirseerhq/tagpin/internal/release"
)

// Options holds the collaborators of a run. Config and Client are required.
type Options struct {
	Config   *config.Config
	Client   github.Client
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Reporter Reporter

	// Stdout receives the manifest when the output path is "-".
	Stdout io.Writer
}

// Result summarizes a completed run.
type Result struct {
	// Entries are the manifest entries in written order.
	Entries []manifest.Entry

	Listed  int
	Matched int

	// Output is the path written, or "-" for standard output.
	Output string
}

// Run executes one manifest run. A failure to list repositories, or a
// transport or decoding failure while fetching tags, aborts the run before
// anything is written.
func Run(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.Config == nil || opts.Client == nil {
		return nil, errors.New("pipeline: Config and Client are required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	start := time.Now()
	defer func() {
		opts.Recorder.ObserveRun(time.Since(start), err == nil)
	}()

	cfg := opts.Config
	org := cfg.Manifest.Organization
	logger := opts.Logger.With(logging.Org(org))

	logger.Debug("Listing repositories")
	repos, err := opts.Client.ListRepositories(ctx, org)
	if err != nil {
		return nil, err
	}
	opts.Recorder.SetRepositories(metrics.StageListed, len(repos))

	matched := FilterByPrefix(repos, cfg.Manifest.Prefix)
	opts.Recorder.SetRepositories(metrics.StageMatched, len(matched))
	opts.Reporter.RepositoriesListed(org, len(repos), len(matched))
	logger.Info("Listed repositories",
		slog.Int("listed", len(repos)),
		slog.Int("matched", len(matched)),
		slog.String("prefix", cfg.Manifest.Prefix))

	entries, err := resolve(ctx, opts, logger, matched)
	if err != nil {
		return nil, err
	}
	opts.Recorder.SetRepositories(metrics.StageResolved, len(entries))

	manifest.Sort(entries)
	if err := write(cfg, opts.Stdout, entries); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Wrote %d versions to %s", len(entries), displayPath(cfg)),
		logging.Count(len(entries)),
		logging.Path(cfg.Manifest.Output))

	return &Result{
		Entries: entries,
		Listed:  len(repos),
		Matched: len(matched),
		Output:  cfg.Manifest.Output,
	}, nil
}

// resolve fetches tags for each repository in turn and keeps those with a
// qualifying release tag.
func resolve(ctx context.Context, opts Options, logger *slog.Logger, repos []github.Repository) ([]manifest.Entry, error) {
	org := opts.Config.Manifest.Organization
	entries := make([]manifest.Entry, 0, len(repos))

	for _, repo := range repos {
		tags, err := opts.Client.ListTags(ctx, org, repo.Name)
		if err != nil {
			return nil, err
		}

		tag, ok := release.Latest(tags)
		if !ok {
			opts.Reporter.TagMissing(repo.Name)
			logger.Debug("No release tag", logging.Repository(repo.Name), slog.Int("tags", len(tags)))
			continue
		}

		opts.Reporter.TagResolved(repo.Name, tag)
		logger.Debug("Selected release tag", logging.Repository(repo.Name), logging.Tag(tag))
		entries = append(entries, manifest.Entry{Repository: repo.Name, Tag: tag})
	}

	return entries, nil
}

func write(cfg *config.Config, stdout io.Writer, entries []manifest.Entry) error {
	org := cfg.Manifest.Organization
	if cfg.WritesToStdout() {
		return manifest.Encode(stdout, org, entries)
	}
	return manifest.WriteFile(cfg.Manifest.Output, org, entries)
}

func displayPath(cfg *config.Config) string {
	if cfg.WritesToStdout() {
		return "stdout"
	}
	return cfg.Manifest.Output
}

// FilterByPrefix returns the repositories whose name starts with prefix, in
// their original order. An empty prefix keeps every repository.
func FilterByPrefix(repos []github.Repository, prefix string) []github.Repository {
	matched := make([]github.Repository, 0, len(repos))
	for _, repo := range repos {
		if strings.HasPrefix(repo.Name, prefix) {
			matched = append(matched, repo)
		}
	}
	return matched
}
