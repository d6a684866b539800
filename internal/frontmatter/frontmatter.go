// Package frontmatter splits content files into a YAML metadata block and a body.
//
// A metadata block is present when the very first line of a document is exactly
// `---`; it runs until the next line that is exactly `---`. Everything after the
// closing line is the body and is kept byte for byte, including any `---`
// sequences it contains.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Marker is the delimiter line that opens and closes a metadata block.
const Marker = "---"

// ErrMissingClosingDelimiter indicates the document started with a metadata
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Style captures the newline convention of a document so rewrites keep it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates the raw metadata block from the body.
//
// If the document does not start with a delimiter line, had is false and body is
// the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte(Marker + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, style, nil
	}
	if string(content[start:]) == Marker {
		return []byte{}, []byte{}, true, style, nil
	}

	closeSeq := []byte(nl + Marker + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing marker on the final line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+Marker)) && len(content) > start+len(nl+Marker) {
			end := len(content) - len(Marker)
			return content[start:end], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, style, nil
}

// Join reassembles a document from a raw metadata block and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	marker := []byte(Marker + nl)

	out := make([]byte, 0, 2*len(marker)+len(frontmatter)+len(body))
	out = append(out, marker...)
	out = append(out, frontmatter...)
	out = append(out, marker...)
	out = append(out, body...)
	return out
}

// ParseYAML parses a raw metadata block (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
