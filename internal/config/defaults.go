package config

import "time"

const (
	DefaultTemplate  = "blog"
	DefaultPattern   = "*.md"
	DefaultDebounce  = 300 * time.Millisecond
	DefaultSubject   = "htmlgen.runs"
	DefaultWorkspace = ".htmlgen"
	DefaultRetries   = 2
)

func applyDefaults(cfg *Config) {
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.Content.Pattern == "" {
		cfg.Content.Pattern = DefaultPattern
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Notify.URL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultSubject
	}
	if r := cfg.Content.Repository; r != nil && r.Workspace == "" {
		r.Workspace = DefaultWorkspace
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = LogLevelInfo
	}
}
