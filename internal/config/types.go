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

// Package config types define the configuration structures used throughout
// tagpin. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for a tagpin run. It is
// passed explicitly into the pipeline; nothing reads configuration from
// package-level state.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Manifest ManifestConfig `yaml:"manifest"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// GitHubConfig contains the REST API location and per-request timeout.
// Point APIEndpoint at https://HOST/api/v3 for GitHub Enterprise Server.
type GitHubConfig struct {
	APIEndpoint    string        `yaml:"api_endpoint"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ManifestConfig selects what goes into the manifest and where it is written.
type ManifestConfig struct {
	// Organization whose repositories are listed.
	Organization string `yaml:"organization"`
	// Prefix keeps only repositories whose name starts with it. Empty keeps all.
	Prefix string `yaml:"prefix"`
	// Output is the manifest path; "-" writes to stdout.
	Output string `yaml:"output"`
	// PageSize is the per_page value for list requests (1-100).
	PageSize int `yaml:"page_size"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// MetadataConfig enables the JSON run-metadata record when File is set.
type MetadataConfig struct {
	File string `yaml:"file"`
}

// Defaults for a run against public GitHub.
const (
	DefaultAPIEndpoint    = "https://api.github.com"
	DefaultRequestTimeout = 30 * time.Second
	DefaultOrganization   = "actions"
	DefaultPrefix         = "setup-"
	DefaultOutput         = "versions.txt"
	DefaultPageSize       = 100
	MaxPageSize           = 100

	// StdoutOutput as the output path writes the manifest to stdout.
	StdoutOutput = "-"
)

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:    DefaultAPIEndpoint,
			RequestTimeout: DefaultRequestTimeout,
		},
		Manifest: ManifestConfig{
			Organization: DefaultOrganization,
			Prefix:       DefaultPrefix,
			Output:       DefaultOutput,
			PageSize:     DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
