package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlgen/internal/content"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/frontmatterops"
)

func write(t *testing.T, root, rel, data string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func TestExporterRun(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	write(t, src, "posts/1515045199828.foo-post.md", "---\ntitle: Foo Post\nauthor: ann\n---\nfoo *body*\n")
	write(t, src, "about.md", "---\ntitle: About\n---\nabout\n")

	var out bytes.Buffer
	e := &Exporter{
		ContentDir:  src,
		Destination: dest,
		Out:         &out,
		Now:         func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	index, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, index, 2)

	assert.Equal(t, IndexEntry{
		Link:       "posts/foo-post.json",
		Title:      "Foo Post",
		Slug:       "foo-post",
		Categories: []string{"posts"},
		Date:       time.UnixMilli(1515045199828).UTC(),
	}, index[0])
	assert.Equal(t, "about.json", index[1].Link)
	assert.Equal(t, []string{}, index[1].Categories)

	data, err := os.ReadFile(filepath.Join(dest, "posts", "foo-post.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Foo Post", doc["title"])
	assert.Equal(t, "ann", doc["author"])
	assert.Equal(t, "foo-post", doc["slug"])
	assert.Equal(t, "2018-01-04T05:53:19.828Z", doc["date"])
	assert.Equal(t, []any{"posts"}, doc["categories"])
	assert.Equal(t, "foo *body*\n", doc["content"])
	assert.NotEmpty(t, doc["fingerprint"])

	indexData, err := os.ReadFile(filepath.Join(dest, IndexFile))
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(indexData, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "posts/foo-post.json", entries[0]["link"])
	assert.Equal(t, "2024-01-01T00:00:00Z", entries[1]["date"])

	assert.Contains(t, out.String(), "✔ saved "+filepath.Join(dest, IndexFile))
}

func TestDocument(t *testing.T) {
	item := content.Item{
		Title:      "A",
		Body:       "body\n",
		Slug:       "a",
		Date:       time.UnixMilli(0).UTC(),
		Categories: []string{"notes"},
		Fields:     map[string]any{"title": "A", "content": "ignored"},
	}

	doc, err := Document(item)
	require.NoError(t, err)
	assert.Equal(t, "body\n", doc["content"])
	assert.Equal(t, "a", doc["slug"])
	assert.Equal(t, []string{"notes"}, doc["categories"])

	fp := doc["fingerprint"].(string)
	delete(doc, "fingerprint")
	want, err := frontmatterops.ComputeFingerprint(doc, []byte(item.Body))
	require.NoError(t, err)
	assert.Equal(t, want, fp)

	item.Body = "changed\n"
	changed, err := Document(item)
	require.NoError(t, err)
	assert.NotEqual(t, fp, changed["fingerprint"])
}

func TestExporterLoadFailure(t *testing.T) {
	src := t.TempDir()
	write(t, src, "broken.md", "---\ntitle: x\n")
	_, err := (&Exporter{ContentDir: src, Destination: t.TempDir()}).Run(context.Background())
	require.Error(t, err)
}

func TestExporterRejectsEscapingSlug(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "content")
	dest := filepath.Join(root, "out", "json")
	write(t, src, "post.md", "---\ntitle: x\nslug: ../../escaped\n---\nbody\n")

	_, err := (&Exporter{ContentDir: src, Destination: dest}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.NoFileExists(t, filepath.Join(root, "escaped.json"))
}

func TestItemPath(t *testing.T) {
	tests := []struct {
		name string
		item content.Item
		want string
		ok   bool
	}{
		{"plain", content.Item{Slug: "a"}, "a.json", true},
		{"categorized", content.Item{Slug: "a", Categories: []string{"posts", "go"}}, filepath.Join("posts", "go", "a.json"), true},
		{"dot prefixed", content.Item{Slug: "..a"}, "..a.json", true},
		{"categorized index", content.Item{Slug: "index", Categories: []string{"posts"}}, filepath.Join("posts", "index.json"), true},
		{"escaping slug", content.Item{Slug: "../x"}, "", false},
		{"escaping category", content.Item{Slug: "x", Categories: []string{"..", ".."}}, "", false},
		{"index collision", content.Item{Slug: "index"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := itemPath(tt.item)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
