// Package content loads markdown files with front matter into content items.
package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is one loaded content file. Its identity is Categories plus Slug.
type Item struct {
	Title      string
	Body       string
	HTML       string
	Slug       string
	Date       time.Time
	Categories []string
	Source     string
	// Fields holds every merged metadata field, including the derived ones
	// and "content" set to the rendered HTML.
	Fields map[string]any
}

// ID returns the item identity, e.g. "posts/2018/foo-post".
func (it Item) ID() string {
	return strings.Join(append(append([]string(nil), it.Categories...), it.Slug), "/")
}

// Field returns a metadata field.
func (it Item) Field(name string) (any, bool) {
	v, ok := it.Fields[name]
	return v, ok
}

// RouteParam lets items be used directly when building links.
func (it Item) RouteParam(name string) (string, bool) {
	switch name {
	case "slug":
		return it.Slug, it.Slug != ""
	case "title":
		return it.Title, it.Title != ""
	case "date":
		return strconv.FormatInt(it.Date.UnixMilli(), 10), !it.Date.IsZero()
	case "categories", "category":
		return strings.Join(it.Categories, "/"), len(it.Categories) > 0
	}
	v, ok := it.Fields[name]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}
