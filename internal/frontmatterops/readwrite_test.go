package frontmatterops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlgen/internal/frontmatter"
)

func TestRead(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		input := []byte("# Title\n\nHello\n")
		doc, err := Read(input)
		require.NoError(t, err)
		require.False(t, doc.Had)
		require.Empty(t, doc.Fields)
		require.Equal(t, input, doc.Body)
	})

	t.Run("empty block", func(t *testing.T) {
		doc, err := Read([]byte("---\n---\n# Title\n"))
		require.NoError(t, err)
		require.True(t, doc.Had)
		require.NotNil(t, doc.Fields)
		require.Empty(t, doc.Fields)
		require.Equal(t, []byte("# Title\n"), doc.Body)
	})

	t.Run("fields", func(t *testing.T) {
		doc, err := Read([]byte("---\ntitle: abc\ntags:\n  - one\n---\n# Title\n"))
		require.NoError(t, err)
		require.Equal(t, "abc", doc.Fields["title"])
		require.Equal(t, []any{"one"}, doc.Fields["tags"])
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		_, err := Read([]byte("---\ntitle: x\n"))
		require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Read([]byte("---\n: not yaml\n---\n# Title\n"))
		require.Error(t, err)
	})
}

func TestDocBytes(t *testing.T) {
	doc := Doc{Fields: map[string]any{}, Body: []byte("body\n")}
	out, err := doc.Bytes()
	require.NoError(t, err)
	require.Equal(t, "body\n", string(out))

	doc.Fields["title"] = "New"
	out, err = doc.Bytes()
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: New\n---\nbody\n", string(out))

	crlf, err := Read([]byte("---\r\ntitle: a\r\n---\r\nbody\r\n"))
	require.NoError(t, err)
	crlf.Fields["title"] = "b"
	out, err = crlf.Bytes()
	require.NoError(t, err)
	require.Equal(t, "---\r\ntitle: b\r\n---\r\nbody\r\n", string(out))
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: a\n---\nkeep me\n---\n"), 0o600))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	doc.Fields["title"] = "b"
	require.NoError(t, WriteFile(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: b\n---\nkeep me\n---\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.md"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
