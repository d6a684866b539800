package content

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDateSlug(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		file     string
		wantDate time.Time
		wantSlug string
		wantOK   bool
	}{
		{"1515045199828.foo-post.md", time.UnixMilli(1515045199828).UTC(), "foo-post", true},
		{"content/posts/1515045199828.foo-post.md", time.UnixMilli(1515045199828).UTC(), "foo-post", true},
		{"plain-name.md", now, "plain-name", false},
		{"v1.2.notes.md", now, "v1.2.notes", false},
		{"42.a.b.md", time.UnixMilli(42).UTC(), "a.b", true},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			date, slug, ok := DeriveDateSlug(tt.file, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSlug, slug)
			assert.True(t, tt.wantDate.Equal(date), "got %s", date)
		})
	}
}

func TestDeriveCategories(t *testing.T) {
	root := filepath.FromSlash("/site/content")
	assert.Equal(t, []string{}, DeriveCategories(root, filepath.Join(root, "a.md")))
	assert.Equal(t, []string{"posts"}, DeriveCategories(root, filepath.Join(root, "posts", "a.md")))
	assert.Equal(t, []string{"posts", "2018"}, DeriveCategories(root, filepath.Join(root, "posts", "2018", "a.md")))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "foo.md", FileName(time.Time{}, "foo", ".md"))
	assert.Equal(t, "1515045199828.foo.md", FileName(time.UnixMilli(1515045199828), "foo", ".md"))
}

func TestItemRouteParam(t *testing.T) {
	it := Item{
		Title:      "Foo",
		Slug:       "foo-post",
		Date:       time.UnixMilli(1000),
		Categories: []string{"posts", "go"},
		Fields:     map[string]any{"author": "ann", "draft": nil},
	}

	v, ok := it.RouteParam("slug")
	assert.True(t, ok)
	assert.Equal(t, "foo-post", v)

	v, ok = it.RouteParam("date")
	assert.True(t, ok)
	assert.Equal(t, "1000", v)

	v, ok = it.RouteParam("categories")
	assert.True(t, ok)
	assert.Equal(t, "posts/go", v)

	v, ok = it.RouteParam("author")
	assert.True(t, ok)
	assert.Equal(t, "ann", v)

	_, ok = it.RouteParam("draft")
	assert.False(t, ok)
	_, ok = it.RouteParam("missing")
	assert.False(t, ok)

	assert.Equal(t, "posts/go/foo-post", it.ID())
}
