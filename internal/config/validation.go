package config

import (
	"errors"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

// Validate checks values that defaults cannot repair.
func Validate(cfg *Config) error {
	var errs []error
	if _, err := ParseLogLevel(string(cfg.Log.Level)); err != nil {
		errs = append(errs, err)
	}
	if _, err := filepath.Match(cfg.Content.Pattern, ""); err != nil {
		errs = append(errs, ferrors.ConfigError("invalid content pattern").
			WithContext("pattern", cfg.Content.Pattern).WithCause(err).Build())
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, ferrors.ConfigError("watch debounce must not be negative").
			WithContext("debounce", cfg.Watch.Debounce.String()).Build())
	}
	if cfg.Watch.Every < 0 {
		errs = append(errs, ferrors.ConfigError("watch interval must not be negative").
			WithContext("every", cfg.Watch.Every.String()).Build())
	}
	if r := cfg.Content.Repository; r != nil {
		if r.URL == "" {
			errs = append(errs, ferrors.ConfigError("content repository url is required").Build())
		}
		if r.Retries != nil && *r.Retries < 0 {
			errs = append(errs, ferrors.ConfigError("content repository retries must not be negative").
				WithContext("retries", *r.Retries).Build())
		}
		if r.Depth < 0 {
			errs = append(errs, ferrors.ConfigError("content repository depth must not be negative").
				WithContext("depth", r.Depth).Build())
		}
	}
	if cfg.Content.Dir != "" && cfg.Output.Destination != "" && filepath.Clean(cfg.Content.Dir) == filepath.Clean(cfg.Output.Destination) {
		errs = append(errs, ferrors.ConfigError("output destination must differ from content directory").
			WithContext("path", cfg.Output.Destination).Build())
	}
	return errors.Join(errs...)
}
