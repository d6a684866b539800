package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/frontmatter"
	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/markdown"
)

// DefaultPattern matches content files by base name.
const DefaultPattern = "*.md"

// Loader reads every content file below Root.
type Loader struct {
	Root string
	// Pattern is matched against base names with filepath.Match.
	Pattern     string
	Renderer    markdown.Renderer
	Now         func() time.Time
	Concurrency int
}

// NewLoader returns a Loader with defaults for everything but root and renderer.
func NewLoader(root string, renderer markdown.Renderer) *Loader {
	return &Loader{
		Root:        root,
		Pattern:     DefaultPattern,
		Renderer:    renderer,
		Now:         time.Now,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Files lists matching files below Root, newest first: the lexical walk order
// reversed, since file names start with their creation time.
func (l *Loader) Files() ([]string, error) {
	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, ferrors.ConfigError("invalid content pattern").
			WithContext("pattern", pattern).
			WithCause(err).
			Build()
	}

	var files []string
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("failed to walk content directory").
			WithContext("path", l.Root).
			WithCause(err).
			Build()
	}
	slices.Reverse(files)
	return files, nil
}

// Load reads, parses and renders every content file. A failure in any file
// fails the whole batch; all per-file failures are reported together.
func (l *Loader) Load(ctx context.Context) ([]Item, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	items := make([]Item, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := l.loadFile(file, now())
			if err != nil {
				errs[i] = err
				return nil
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slog.Debug("Loaded content", logfields.Path(l.Root), logfields.Items(len(items)))
	return items, nil
}

func (l *Loader) loadFile(file string, now time.Time) (Item, error) {
	// #nosec G304 -- file comes from walking the configured content root
	raw, err := os.ReadFile(file)
	if err != nil {
		return Item{}, ferrors.FileSystemError("failed to read content file").
			WithContext("file", file).
			WithCause(err).
			Build()
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Item{}, ferrors.ContentError("failed to parse front matter").
			WithContext("file", file).
			WithCause(err).
			Build()
	}

	html, err := l.Renderer.Render([]byte(doc.Body))
	if err != nil {
		return Item{}, ferrors.ContentError("failed to render markdown").
			WithContext("file", file).
			WithCause(err).
			Build()
	}

	date, slug, _ := DeriveDateSlug(file, now)
	item := merge(doc.Fields, date, slug, DeriveCategories(l.Root, file))
	item.Body = doc.Body
	item.HTML = html
	item.Source = file
	item.Fields["content"] = html
	return item, nil
}

// merge combines front matter with derived metadata. Front matter wins; derived
// values only fill gaps.
func merge(fields map[string]any, date time.Time, slug string, categories []string) Item {
	merged := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		merged[k] = v
	}

	item := Item{Fields: merged}

	if s, ok := merged["slug"].(string); ok && s != "" {
		item.Slug = s
	} else {
		item.Slug = slug
	}
	merged["slug"] = item.Slug

	if d, ok := coerceDate(merged["date"]); ok {
		item.Date = d
	} else {
		item.Date = date
	}
	merged["date"] = item.Date

	if c, ok := coerceStrings(merged["categories"]); ok {
		item.Categories = c
	} else {
		item.Categories = categories
	}
	merged["categories"] = item.Categories

	if v, ok := merged["title"]; ok && v != nil {
		item.Title = fmt.Sprint(v)
	}
	return item
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func coerceDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), true
	case int:
		return time.UnixMilli(int64(d)).UTC(), true
	case int64:
		return time.UnixMilli(d).UTC(), true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	}
	return time.Time{}, false
}

func coerceStrings(v any) ([]string, bool) {
	switch c := v.(type) {
	case []string:
		return c, true
	case []any:
		out := make([]string, 0, len(c))
		for _, e := range c {
			if e == nil {
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out, true
	case string:
		if c == "" {
			return nil, false
		}
		return strings.Split(strings.Trim(c, "/"), "/"), true
	}
	return nil, false
}
