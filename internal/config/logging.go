package config

import (
	"log/slog"

	"git.home.luguber.info/inful/htmlgen/internal/foundation/normalization"
)

// LogLevel is a configured log level name.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.NewEnum("log level", LogLevelInfo,
	LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)

// ParseLogLevel normalizes raw, rejecting unknown names.
func ParseLogLevel(raw string) (LogLevel, error) { return logLevels.Parse(raw) }

// Slog maps the level onto slog.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
