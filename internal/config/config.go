// Package config loads the optional htmlgen YAML configuration file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "htmlgen.yaml"

// Config is the full configuration file.
type Config struct {
	Content  ContentConfig `yaml:"content"`
	Output   OutputConfig  `yaml:"output"`
	Template string        `yaml:"template"`
	Watch    WatchConfig   `yaml:"watch"`
	History  HistoryConfig `yaml:"history"`
	Notify   NotifyConfig  `yaml:"notify"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

// ContentConfig locates the content files.
type ContentConfig struct {
	Dir        string            `yaml:"dir"`
	Pattern    string            `yaml:"pattern"`
	Repository *RepositoryConfig `yaml:"repository,omitempty"`
}

// RepositoryConfig names a git repository the content is cloned from.
type RepositoryConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
	// Workspace is where the checkout is kept between runs.
	Workspace string `yaml:"workspace,omitempty"`
	// Retries bounds retries of transient sync failures; unset means
	// DefaultRetries.
	Retries *int `yaml:"retries,omitempty"`
}

// RetryCount is the effective number of sync retries.
func (r RepositoryConfig) RetryCount() int {
	if r.Retries == nil {
		return DefaultRetries
	}
	return *r.Retries
}

// OutputConfig controls where and how pages are written.
type OutputConfig struct {
	Destination string `yaml:"destination"`
	// Minify defaults to true when unset.
	Minify *bool `yaml:"minify,omitempty"`
}

// MinifyEnabled reports the effective minify setting.
func (o OutputConfig) MinifyEnabled() bool { return o.Minify == nil || *o.Minify }

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Every    time.Duration `yaml:"every,omitempty"`
}

// HistoryConfig points at the SQLite run history. Empty disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig configures NATS run notifications. Empty URL disables them.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type LogConfig struct {
	Level LogLevel `yaml:"level"`
}

// Load reads, expands, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles("."); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).WithCause(err).Build()
		}
		return nil, ferrors.ConfigError("failed to read configuration file").
			WithContext("path", path).WithCause(err).Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.ConfigError("invalid configuration file").
			WithContext("path", path).WithCause(err).Build()
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML after expanding ${VAR} references from the environment.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse configuration").WithCause(err).Build()
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	cfg.Log.Level = logLevels.Normalize(string(cfg.Log.Level))
	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
