package frontmatterops

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/htmlgen/internal/frontmatter"
)

// Doc is a content file split into fields and body, remembering whether it had
// a front matter block and its newline style.
type Doc struct {
	Fields map[string]any
	Body   []byte
	Had    bool
	Style  frontmatter.Style
}

// Read splits content into fields and body. Without a front matter block Had
// is false, Fields is empty and Body is the full input.
func Read(content []byte) (Doc, error) {
	raw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return Doc{Style: style}, err
	}
	fields, err := frontmatter.ParseYAML(raw)
	if err != nil {
		return Doc{Had: had, Style: style}, err
	}
	return Doc{Fields: fields, Body: body, Had: had, Style: style}, nil
}

// Bytes serializes the document. A document that had no front matter block
// gets one as soon as it has fields.
func (d Doc) Bytes() ([]byte, error) {
	if !d.Had && len(d.Fields) == 0 {
		return d.Body, nil
	}
	style := d.Style
	if style.Newline == "" {
		style.Newline = "\n"
	}
	raw, err := frontmatter.SerializeYAML(d.Fields, style)
	if err != nil {
		return nil, err
	}
	return frontmatter.Join(raw, d.Body, true, style), nil
}

// ReadFile reads and splits the file at path.
func ReadFile(path string) (Doc, error) {
	// #nosec G304 -- callers pass user selected content files
	content, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, err
	}
	doc, err := Read(content)
	if err != nil {
		return Doc{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile serializes doc and replaces path through a temporary file in the
// same directory.
func WriteFile(path string, doc Doc) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
