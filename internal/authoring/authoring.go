// Package authoring creates and moves content files.
package authoring

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/content"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/frontmatter"
	"git.home.luguber.info/inful/htmlgen/internal/frontmatterops"
	"git.home.luguber.info/inful/htmlgen/internal/slug"
)

// Extension of new content files.
const Extension = ".md"

// MakeOptions configures Make.
type MakeOptions struct {
	Destination string
	Title       string
	// Date prefixes the file name with the current time in epoch milliseconds.
	Date bool
	Now  func() time.Time
}

// Make creates an empty content file named after the slug of the title and
// returns its path. An existing file is never overwritten.
func Make(opts MakeOptions) (string, error) {
	s := slug.Make(opts.Title)
	if s == "" {
		return "", ferrors.ValidationError("title has no usable characters").
			WithContext("title", opts.Title).
			Build()
	}

	var date time.Time
	if opts.Date {
		date = now(opts.Now)
	}
	file := filepath.Join(opts.Destination, content.FileName(date, s, Extension))

	data, err := frontmatter.Stringify(map[string]any{"title": opts.Title}, "")
	if err != nil {
		return "", ferrors.InternalError("failed to encode front matter").WithCause(err).Build()
	}
	if err := createExclusive(file, data); err != nil {
		return "", err
	}
	return file, nil
}

// MoveOptions configures Move.
type MoveOptions struct {
	Source      string
	Destination string
	// Title replaces the title field and the slug.
	Title string
	// Update sets the time prefix to now.
	Update bool
	// NoDate drops the time prefix.
	NoDate bool
	Now    func() time.Time
}

// Move renames a content file into Destination, applying the title and time
// options, and rewrites its front matter. The body is kept byte for byte.
func Move(opts MoveOptions) (string, error) {
	ts := now(opts.Now)
	ext := filepath.Ext(opts.Source)
	date, s, _ := content.DeriveDateSlug(opts.Source, ts)

	doc, err := frontmatterops.ReadFile(opts.Source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ferrors.NewError(ferrors.CategoryNotFound, "source file does not exist").
				WithContext("file", opts.Source).
				WithCause(err).
				Build()
		}
		return "", ferrors.ContentError("failed to read source file").
			WithContext("file", opts.Source).
			WithCause(err).
			Build()
	}

	if opts.Update {
		date = ts
	}
	if opts.Title != "" {
		s = slug.Make(opts.Title)
		if s == "" {
			return "", ferrors.ValidationError("title has no usable characters").
				WithContext("title", opts.Title).
				Build()
		}
		if doc.Fields == nil {
			doc.Fields = map[string]any{}
		}
		doc.Fields["title"] = opts.Title
	}
	if opts.NoDate {
		date = time.Time{}
	}

	target := filepath.Join(opts.Destination, content.FileName(date, s, ext))
	if filepath.Clean(target) != filepath.Clean(opts.Source) {
		if _, err := os.Stat(target); err == nil {
			return "", ferrors.NewError(ferrors.CategoryExists, "target file already exists").
				WithContext("file", target).
				Build()
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", ferrors.FileSystemError("failed to create destination directory").
			WithContext("path", filepath.Dir(target)).
			WithCause(err).
			Build()
	}
	if err := os.Rename(opts.Source, target); err != nil {
		return "", ferrors.FileSystemError("failed to move file").
			WithContext("file", opts.Source).
			WithContext("target", target).
			WithCause(err).
			Build()
	}
	if err := frontmatterops.WriteFile(target, doc); err != nil {
		return "", ferrors.FileSystemError("failed to rewrite front matter").
			WithContext("file", target).
			WithCause(err).
			Build()
	}
	return target, nil
}

// createExclusive writes data to a new file, creating parent directories. It
// fails when the file already exists.
func createExclusive(file string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create destination directory").
			WithContext("path", filepath.Dir(file)).
			WithCause(err).
			Build()
	}

	// #nosec G304 -- file is built from the destination and a slug
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, syscall.EEXIST) {
			return ferrors.NewError(ferrors.CategoryExists, "file already exists").
				WithContext("file", file).
				Build()
		}
		return ferrors.FileSystemError("failed to create file").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return ferrors.FileSystemError("failed to write file").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	return nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}
