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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/tagpin/internal/config"
	"github.com/sirseerhq/tagpin/internal/github"
	"github.com/sirseerhq/tagpin/internal/logging"
	"github.com/sirseerhq/tagpin/internal/metadata"
	"github.com/sirseerhq/tagpin/internal/metrics"
	"github.com/sirseerhq/tagpin/internal/pipeline"
	"github.com/sirseerhq/tagpin/pkg/version"
)

// generateFlags holds the values bound to the generate command's flags.
type generateFlags struct {
	configPath   string
	org          string
	prefix       string
	output       string
	pageSize     int
	apiEndpoint  string
	timeout      time.Duration
	logLevel     string
	logFormat    string
	metricsFile  string
	metadataFile string
	noColor      bool
}

func (f *generateFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)

	fs.StringVar(&f.configPath, "config", "", "Path to config file (default: .tagpin.yaml or ~/.tagpin/config.yaml)")

	// Manifest selection
	fs.StringVar(&f.org, "org", config.DefaultOrganization, "GitHub organization whose repositories are listed")
	fs.StringVar(&f.prefix, "prefix", config.DefaultPrefix, "Only include repositories whose name starts with this prefix")
	fs.StringVarP(&f.output, "output", "o", config.DefaultOutput, "Manifest path, or - for stdout")
	fs.IntVar(&f.pageSize, "page-size", config.DefaultPageSize, "Items requested per page (1-100)")

	// API
	fs.StringVar(&f.apiEndpoint, "api-endpoint", config.DefaultAPIEndpoint, "GitHub REST API root (e.g. https://ghe.example.com/api/v3)")
	fs.DurationVar(&f.timeout, "timeout", config.DefaultRequestTimeout, "Timeout for each HTTP request")

	// Observability
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	fs.StringVar(&f.metadataFile, "metadata-file", "", "Write a JSON run-metadata record to this path")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored progress output")

	return fs
}

// apply copies explicitly set flags over cfg. Unset flags leave the file and
// environment values in place.
func (f *generateFlags) apply(cfg *config.Config, fs *pflag.FlagSet) {
	if fs.Changed("org") {
		cfg.Manifest.Organization = f.org
	}
	if fs.Changed("prefix") {
		cfg.Manifest.Prefix = f.prefix
	}
	if fs.Changed("output") {
		cfg.Manifest.Output = f.output
	}
	if fs.Changed("page-size") {
		cfg.Manifest.PageSize = f.pageSize
	}
	if fs.Changed("api-endpoint") {
		cfg.GitHub.APIEndpoint = f.apiEndpoint
	}
	if fs.Changed("timeout") {
		cfg.GitHub.RequestTimeout = f.timeout
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.Textfile = f.metricsFile
	}
	if fs.Changed("metadata-file") {
		cfg.Metadata.File = f.metadataFile
	}
}

func newGenerateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the release manifest for an organization",
		Long: `Write the release manifest for a GitHub organization.

Every repository whose name starts with --prefix is pinned to its latest
major release tag (v1, v2, ...). The manifest holds one <org>/<repo>@<tag>
line per repository, sorted by repository name, and replaces any previous
file at --output.

Settings are read, highest precedence first, from flags, TAGPIN_*
environment variables (TAGPIN_ORG, TAGPIN_PREFIX, TAGPIN_OUTPUT,
TAGPIN_PAGE_SIZE, TAGPIN_API_ENDPOINT, ...), the config file, and built-in
defaults. No GitHub credentials are used.`,
		Example: `  tagpin generate
  tagpin generate --org actions --prefix setup- --output versions.txt
  tagpin generate --output - | sort -c`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cfg, cmd.Flags())
			if err := cfg.Validate(); err != nil {
				return err
			}

			colorEnabled := !flags.noColor && isTerminal(cmd.ErrOrStderr())
			return runGenerate(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), colorEnabled)
		},
	}

	cmd.Flags().AddFlagSet(flags.flagSet())

	return cmd
}

// runGenerate executes one manifest run and then exports metrics and run
// metadata when configured, whether or not the run succeeded.
func runGenerate(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, colorEnabled bool) error {
	logger, err := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	promRecorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	tracker := metadata.New()
	recorder := metrics.Multi(promRecorder, tracker)

	client, err := github.NewRESTClient(github.Options{
		BaseURL:  cfg.GitHub.APIEndpoint,
		PageSize: cfg.Manifest.PageSize,
		Timeout:  cfg.GitHub.RequestTimeout,
		Logger:   logger,
		Recorder: recorder,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	_, runErr := pipeline.Run(ctx, pipeline.Options{
		Config:   cfg,
		Client:   client,
		Logger:   logger,
		Recorder: recorder,
		Reporter: newProgressReporter(stderr, colorEnabled),
		Stdout:   stdout,
	})

	if path := cfg.Metrics.Textfile; path != "" {
		if err := promRecorder.WriteTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", logging.Path(path), logging.Error(err))
		} else {
			logger.Debug("Wrote metrics textfile", logging.Path(path))
		}
	}

	if path := cfg.Metadata.File; path != "" {
		md := tracker.GenerateMetadata(version.Version, metadata.RunParams{
			Organization: cfg.Manifest.Organization,
			Prefix:       cfg.Manifest.Prefix,
			Output:       cfg.Manifest.Output,
			APIEndpoint:  cfg.GitHub.APIEndpoint,
			PageSize:     cfg.Manifest.PageSize,
		})
		if err := metadata.SaveMetadata(md, path); err != nil {
			logger.Warn("Failed to save run metadata", logging.Path(path), logging.Error(err))
		} else {
			logger.Debug("Saved run metadata", logging.Path(path), slog.Int("api_calls", md.Results.APICallCount))
		}
	}

	return runErr
}
