package frontmatter

import (
	"maps"
)

// Reserved keys never written into a metadata block; they name the body.
var bodyKeys = []string{"body", "content"}

// Document is a parsed content file: decoded metadata plus the verbatim body.
type Document struct {
	Fields map[string]any
	Body   string
}

// Parse decodes a document. Without a leading metadata block, Fields is empty and
// Body is the whole input.
func Parse(text []byte) (Document, error) {
	raw, body, had, _, err := Split(text)
	if err != nil {
		return Document{}, err
	}
	if !had {
		return Document{Fields: map[string]any{}, Body: string(body)}, nil
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{Fields: fields, Body: string(body)}, nil
}

// Stringify encodes fields as a metadata block wrapped in marker lines and
// appends body. The body/content keys are dropped from the block.
//
// Parse(Stringify(fields, body)) reproduces fields and body unless body itself
// starts with a marker line.
func Stringify(fields map[string]any, body string) ([]byte, error) {
	clean := maps.Clone(fields)
	if clean == nil {
		clean = map[string]any{}
	}
	for _, k := range bodyKeys {
		delete(clean, k)
	}
	raw, err := SerializeYAML(clean, Style{Newline: "\n"})
	if err != nil {
		return nil, err
	}
	return Join(raw, []byte(body), true, Style{Newline: "\n"}), nil
}
