package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPage       = "page"
	KeyTemplate   = "template"
	KeyItems      = "items"
	KeyPages      = "pages"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeySubject    = "subject"
	KeyOp         = "op"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func File(f string) slog.Attr            { return slog.String(KeyFile, f) }
func Page(p string) slog.Attr            { return slog.String(KeyPage, p) }
func Template(name string) slog.Attr     { return slog.String(KeyTemplate, name) }
func Items(n int) slog.Attr              { return slog.Int(KeyItems, n) }
func Pages(n int) slog.Attr              { return slog.Int(KeyPages, n) }
func URL(u string) slog.Attr             { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr          { return slog.String(KeyBranch, b) }
func Subject(s string) slog.Attr         { return slog.String(KeySubject, s) }
func Op(op string) slog.Attr             { return slog.String(KeyOp, op) }
func Duration(d time.Duration) slog.Attr { return DurationMS(float64(d) / float64(time.Millisecond)) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
