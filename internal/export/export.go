// Package export writes loaded content as JSON documents plus an index.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/content"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/frontmatterops"
)

// IndexFile is the name of the index written below the destination.
const IndexFile = "index.json"

// IndexEntry describes one exported item in the index.
type IndexEntry struct {
	Link       string    `json:"link"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Categories []string  `json:"categories"`
	Date       time.Time `json:"date"`
}

// Exporter converts a content directory into JSON files.
type Exporter struct {
	ContentDir  string
	Destination string
	Pattern     string
	Out         io.Writer
	Now         func() time.Time
}

// raw keeps bodies as written so exported documents carry markdown, not HTML.
type raw struct{}

func (raw) Render(body []byte) (string, error) { return string(body), nil }

// Run writes <dest>/<categories...>/<slug>.json for every item in load order
// and then <dest>/index.json.
func (e *Exporter) Run(ctx context.Context) ([]IndexEntry, error) {
	loader := content.NewLoader(e.ContentDir, raw{})
	loader.Pattern = e.Pattern
	if e.Now != nil {
		loader.Now = e.Now
	}
	items, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := make([]IndexEntry, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := e.writeItem(item)
		if err != nil {
			return nil, err
		}
		index = append(index, entry)
	}

	if err := e.writeJSON(filepath.Join(e.Destination, IndexFile), index); err != nil {
		return nil, err
	}
	return index, nil
}

// Document returns the exported JSON object of an item.
func Document(item content.Item) (map[string]any, error) {
	doc := make(map[string]any, len(item.Fields)+1)
	for k, v := range item.Fields {
		doc[k] = v
	}
	doc["slug"] = item.Slug
	doc["date"] = item.Date
	doc["categories"] = item.Categories
	doc["content"] = item.Body

	fingerprint, err := frontmatterops.ComputeFingerprint(doc, []byte(item.Body))
	if err != nil {
		return nil, err
	}
	doc["fingerprint"] = fingerprint
	return doc, nil
}

func (e *Exporter) writeItem(item content.Item) (IndexEntry, error) {
	doc, err := Document(item)
	if err != nil {
		return IndexEntry{}, ferrors.ContentError("failed to fingerprint item").
			WithContext("file", item.Source).
			WithCause(err).
			Build()
	}

	rel, err := itemPath(item)
	if err != nil {
		return IndexEntry{}, err
	}
	file := filepath.Join(e.Destination, rel)
	if err := e.writeJSON(file, doc); err != nil {
		return IndexEntry{}, err
	}

	link, err := filepath.Rel(e.Destination, file)
	if err != nil {
		return IndexEntry{}, ferrors.FileSystemError("failed to compute link").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	return IndexEntry{
		Link:       filepath.ToSlash(link),
		Title:      item.Title,
		Slug:       item.Slug,
		Categories: item.Categories,
		Date:       item.Date,
	}, nil
}

// itemPath is the item's document path relative to the destination. Paths
// leaving the destination or colliding with the index are rejected.
func itemPath(item content.Item) (string, error) {
	parts := append(append([]string{}, item.Categories...), item.Slug+".json")
	rel := filepath.Clean(filepath.Join(parts...))
	switch {
	case rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel):
		return "", ferrors.ValidationError("item escapes the export directory").
			WithContext("file", item.Source).
			WithContext("slug", item.Slug).
			Build()
	case rel == IndexFile:
		return "", ferrors.ValidationError("item collides with the export index").
			WithContext("file", item.Source).
			WithContext("slug", item.Slug).
			Build()
	}
	return rel, nil
}

func (e *Exporter) writeJSON(file string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return ferrors.InternalError("failed to encode json").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create export directory").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	// #nosec G306 -- exported documents are public
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write export").
			WithContext("file", file).
			WithCause(err).
			Build()
	}
	if e.Out != nil {
		if _, err := fmt.Fprintf(e.Out, "✔ saved %s\n", file); err != nil {
			return fmt.Errorf("report saved file: %w", err)
		}
	}
	return nil
}
