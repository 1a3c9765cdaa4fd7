// Package config holds the run configuration for apidocgen.
//
// A Config is constructed once before a run (defaults, then an optional
// YAML file, then CLI overrides) and is read-only afterwards. Every
// component receives it explicitly; there is no package-level state.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	// Platform is the project name shown in the index banner.
	Platform string `yaml:"platform"`
	// SourceExtension selects qualifying source files (case-sensitive suffix).
	SourceExtension string `yaml:"source_extension"`
	// SkipPrefix marks raw entry names that are never visited.
	SkipPrefix string `yaml:"skip_prefix"`
	// OutputDir receives the generated documents, relative to the project root.
	OutputDir string `yaml:"output_dir"`
	// AnchorDir is the tool's documentation home inside the project root.
	AnchorDir string `yaml:"anchor_dir"`
	// ProjectRoot pins the expected working directory. Empty means auto-detect.
	ProjectRoot string `yaml:"project_root,omitempty"`
	// TemplatesDir optionally overrides the embedded document templates.
	TemplatesDir string `yaml:"templates_dir,omitempty"`

	Site SiteConfig `yaml:"site"`

	// IgnorePrefixes is fixed at compile time and never read from a file.
	IgnorePrefixes []string `yaml:"-"`
}

// SiteConfig carries the static Sphinx site settings rendered into conf.py and index.rst.
type SiteConfig struct {
	Title        string `yaml:"title"`
	NavTitle     string `yaml:"nav_title"`
	HomeLabel    string `yaml:"home_label"`
	HomeURL      string `yaml:"home_url"`
	BaseURL      string `yaml:"base_url"`
	RepoURL      string `yaml:"repo_url"`
	RepoName     string `yaml:"repo_name"`
	PrimaryColor string `yaml:"primary_color"`
	Favicon      string `yaml:"favicon"`
}

// Ignores returns a copy of the ignore prefixes.
func (c Config) Ignores() []string {
	return slices.Clone(c.IgnorePrefixes)
}

// Load builds a Config from defaults, the environment and an optional YAML file.
// An empty path yields the defaults.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if err := loadEnvFile(); err != nil {
		return cfg, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load .env file").Fatal().Build()
	}

	if configPath == "" {
		return cfg, cfg.Validate()
	}

	// #nosec G304 -- configuration path is supplied by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
		}
		return cfg, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	// The ignore set is compiled in; a file can never widen or narrow it.
	cfg.IgnorePrefixes = DefaultIgnorePrefixes()

	return cfg, cfg.Validate()
}

// Init creates a new configuration file populated with the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Default()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Fatal().Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").Fatal().Build()
		}
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}
