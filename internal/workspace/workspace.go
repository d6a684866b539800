package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/logfields"
)

// Workspace is a checkout directory.
type Workspace struct {
	base       string
	dir        string
	persistent bool
}

// Ephemeral returns a workspace in a new temporary directory under base
// (os.TempDir when empty). Create must be called before use.
func Ephemeral(base string) *Workspace {
	if base == "" {
		base = os.TempDir()
	}
	return &Workspace{base: base}
}

// Persistent returns a workspace fixed at base/name.
func Persistent(base, name string) *Workspace {
	if name == "" {
		name = "content"
	}
	return &Workspace{base: base, dir: filepath.Join(base, name), persistent: true}
}

// Create makes the workspace directory.
func (w *Workspace) Create() error {
	if w.persistent {
		if err := os.MkdirAll(w.dir, 0o750); err != nil {
			return ferrors.FileSystemError("failed to create workspace").
				WithContext("path", w.dir).WithCause(err).Build()
		}
		slog.Debug("Using persistent workspace", logfields.Path(w.dir))
		return nil
	}
	if err := os.MkdirAll(w.base, 0o750); err != nil {
		return ferrors.FileSystemError("failed to create workspace base").
			WithContext("path", w.base).WithCause(err).Build()
	}
	dir, err := os.MkdirTemp(w.base, "htmlgen-")
	if err != nil {
		return ferrors.FileSystemError("failed to create workspace").
			WithContext("path", w.base).WithCause(err).Build()
	}
	w.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path is the workspace directory, empty for an ephemeral workspace that has
// not been created.
func (w *Workspace) Path() string { return w.dir }

// Persistent reports whether Cleanup keeps the directory.
func (w *Workspace) Persistent() bool { return w.persistent }

// Join resolves rel inside the workspace. Paths escaping the workspace are
// rejected.
func (w *Workspace) Join(rel string) (string, error) {
	if w.dir == "" {
		return "", ferrors.InternalError("workspace not created").Build()
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError("path escapes workspace").
			WithContext("path", rel).Build()
	}
	return filepath.Join(w.dir, clean), nil
}

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept.
func (w *Workspace) Cleanup() error {
	if w.dir == "" || w.persistent {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return ferrors.FileSystemError("failed to remove workspace").
			WithContext("path", w.dir).WithCause(err).Build()
	}
	slog.Debug("Removed workspace", logfields.Path(w.dir))
	w.dir = ""
	return nil
}
