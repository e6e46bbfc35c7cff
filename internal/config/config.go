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

// Package config provides configuration management for tagpin with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the CLI)
//  2. Environment variables (TAGPIN_*)
//  3. Configuration file
//  4. Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	tperrors "github.com/sirseerhq/tagpin/internal/errors"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TAGPIN"

// LoadConfig loads configuration from the defaults, a config file and the
// environment. If configPath is provided, it loads from that specific file.
// Otherwise, it searches standard locations:
//   - .tagpin.yaml (current directory)
//   - .tagpin.yml (current directory)
//   - ~/.tagpin/config.yaml
//
// Returns an error wrapping ErrInvalidConfig if the specified config file
// cannot be loaded, but will succeed with defaults if no config file is found
// in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	// GITHUB_API_URL is set on GitHub Actions runners, including GHES ones.
	// It replaces the built-in endpoint only; the file and TAGPIN_API_ENDPOINT
	// still win.
	if endpoint := os.Getenv("GITHUB_API_URL"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to load config file: %w", tperrors.ErrInvalidConfig, err)
		}
	} else {
		defaultPaths := []string{
			".tagpin.yaml",
			".tagpin.yml",
			filepath.Join(os.Getenv("HOME"), ".tagpin", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("%w: failed to load config from %s: %w", tperrors.ErrInvalidConfig, path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg, newEnv())

	cfg.Manifest.Output = expandPath(cfg.Manifest.Output)
	cfg.Metrics.Textfile = expandPath(cfg.Metrics.Textfile)
	cfg.Metadata.File = expandPath(cfg.Metadata.File)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// newEnv returns a viper instance that resolves keys such as "page_size"
// from TAGPIN_PAGE_SIZE.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// applyEnvOverrides applies environment variable overrides to config.
// Malformed numeric or duration values are ignored.
func applyEnvOverrides(cfg *Config, v *viper.Viper) {
	if endpoint := v.GetString("api_endpoint"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if timeout := v.GetString("request_timeout"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.GitHub.RequestTimeout = d
		}
	}

	if org := v.GetString("org"); org != "" {
		cfg.Manifest.Organization = org
	}
	// An empty prefix is meaningful (keep every repository), so presence is
	// checked rather than value.
	if v.IsSet("prefix") {
		cfg.Manifest.Prefix = v.GetString("prefix")
	}
	if output := v.GetString("output"); output != "" {
		cfg.Manifest.Output = output
	}
	if pageSize := v.GetString("page_size"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Manifest.PageSize = size
		}
	}

	if level := v.GetString("log_level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := v.GetString("log_format"); format != "" {
		cfg.Logging.Format = format
	}
	if textfile := v.GetString("metrics_file"); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}
	if file := v.GetString("metadata_file"); file != "" {
		cfg.Metadata.File = file
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" || path == StdoutOutput {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// WritesToStdout reports whether the manifest goes to standard output.
func (c *Config) WritesToStdout() bool {
	return c.Manifest.Output == StdoutOutput
}

// Validate checks if the configuration contains valid values. The returned
// error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", tperrors.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Manifest.Organization) == "" {
		return fmt.Errorf("organization cannot be empty")
	}
	if strings.Contains(c.Manifest.Organization, "/") {
		return fmt.Errorf("organization %q must not contain '/'", c.Manifest.Organization)
	}
	if c.Manifest.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Manifest.PageSize)
	}
	if c.Manifest.PageSize > MaxPageSize {
		return fmt.Errorf("page size %d exceeds GitHub API limit of %d", c.Manifest.PageSize, MaxPageSize)
	}
	if c.Manifest.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	u, err := url.Parse(c.GitHub.APIEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GitHub API endpoint %q is not an absolute URL", c.GitHub.APIEndpoint)
	}
	if c.GitHub.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %s", c.GitHub.RequestTimeout)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
