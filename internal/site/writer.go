package site

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

// Page is a resolved page ready to be written.
type Page struct {
	Route string
	HTML  string
}

// Writer writes resolved pages below a destination directory.
type Writer struct {
	Destination string
	// Out receives one "✔ saved <file>" line per written file.
	Out         io.Writer
	Concurrency int

	mu sync.Mutex
}

// NewWriter creates a Writer reporting to out.
func NewWriter(destination string, out io.Writer) *Writer {
	if out == nil {
		out = io.Discard
	}
	return &Writer{Destination: destination, Out: out, Concurrency: runtime.GOMAXPROCS(0)}
}

// Write writes every page concurrently and returns the written file paths in
// page order. The first failure cancels the remaining writes; files already
// written are left in place.
func (w *Writer) Write(ctx context.Context, pages []Page) ([]string, error) {
	files := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	if w.Concurrency > 0 {
		g.SetLimit(w.Concurrency)
	}
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := w.writePage(page)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Writer) writePage(page Page) (string, error) {
	rel := filepath.Clean(PagePath(page.Route))
	if escapesRoot(rel) {
		return "", ferrors.ValidationError("page escapes the destination directory").
			WithContext("page", page.Route).
			Build()
	}
	file := filepath.Join(w.Destination, rel)

	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return "", ferrors.FileSystemError("failed to create page directory").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	// #nosec G306 -- generated pages are public
	if err := os.WriteFile(file, []byte(page.HTML), 0o644); err != nil {
		return "", ferrors.FileSystemError("failed to write page").
			WithContext("file", file).
			WithCause(err).
			Build()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.Out, "✔ saved %s\n", file); err != nil {
		return "", fmt.Errorf("report saved file: %w", err)
	}
	return file, nil
}

// escapesRoot reports whether a cleaned relative path leaves its root.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel)
}
