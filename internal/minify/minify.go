// Package minify shrinks generated HTML pages.
package minify

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/htmlgen/internal/util/sets"
)

var (
	preserved = sets.New("pre", "textarea", "script", "style")

	booleanAttrs = sets.New(
		"allowfullscreen", "async", "autofocus", "autoplay", "checked", "controls",
		"default", "defer", "disabled", "formnovalidate", "hidden", "inert", "ismap",
		"itemscope", "loop", "multiple", "muted", "nomodule", "novalidate", "open",
		"playsinline", "readonly", "required", "reversed", "selected",
	)

	emptyRemovable = sets.New("class", "id", "style")
)

// optionalEnd describes an end tag that may be omitted when the next tag is
// one of next, or, when atParentEnd is set, when the parent element ends.
type optionalEnd struct {
	next        sets.Set[string]
	atParentEnd bool
}

var optionalEnds = map[string]optionalEnd{
	"li":       {next: sets.New("li"), atParentEnd: true},
	"dt":       {next: sets.New("dt", "dd")},
	"dd":       {next: sets.New("dt", "dd"), atParentEnd: true},
	"option":   {next: sets.New("option", "optgroup"), atParentEnd: true},
	"optgroup": {next: sets.New("optgroup"), atParentEnd: true},
	"tr":       {next: sets.New("tr"), atParentEnd: true},
	"td":       {next: sets.New("td", "th"), atParentEnd: true},
	"th":       {next: sets.New("td", "th"), atParentEnd: true},
	"thead":    {next: sets.New("tbody", "tfoot")},
	"tbody":    {next: sets.New("tbody", "tfoot"), atParentEnd: true},
	"tfoot":    {atParentEnd: true},
	"body":     {atParentEnd: true},
	"html":     {atParentEnd: true},
}

// HTML minifies an HTML document or fragment. Whitespace runs in text become a
// single space and whitespace-only text is dropped. Comments are removed,
// boolean attributes are collapsed, attribute quotes are dropped where
// possible and empty or redundant attributes are removed. Optional end tags
// such as </li> and </td> are dropped where the following markup implies
// them. The content of pre, textarea, script and style elements is kept
// verbatim.
func HTML(src string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src))

	// pending is an optional end tag whose omission depends on the next token.
	pending := ""
	flush := func() {
		if pending != "" {
			b.WriteString("</")
			b.WriteString(pending)
			b.WriteByte('>')
			pending = ""
		}
	}

	preDepth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if pending != "html" && pending != "body" {
					flush()
				}
				return b.String(), nil
			}
			return "", z.Err()

		case html.TextToken:
			raw := string(z.Raw())
			if preDepth > 0 {
				b.WriteString(raw)
				continue
			}
			if text := collapseSpace(raw); strings.TrimSpace(text) != "" {
				flush()
				b.WriteString(text)
			}

		case html.CommentToken:
			// dropped

		case html.DoctypeToken:
			flush()
			b.Write(z.Raw())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if pending != "" && optionalEnds[pending].next.Has(tag) {
				pending = ""
			}
			flush()
			writeStartTag(&b, z, tag, hasAttr, tt == html.SelfClosingTagToken)
			if tt == html.StartTagToken && preserved.Has(tag) {
				preDepth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if pending != "" && optionalEnds[pending].atParentEnd {
				pending = ""
			}
			flush()
			if preserved.Has(tag) && preDepth > 0 {
				preDepth--
			}
			if _, ok := optionalEnds[tag]; ok && preDepth == 0 {
				pending = tag
				continue
			}
			b.WriteString("</")
			b.WriteString(tag)
			b.WriteByte('>')
		}
	}
}

func writeStartTag(b *strings.Builder, z *html.Tokenizer, tag string, hasAttr, selfClosing bool) {
	b.WriteByte('<')
	b.WriteString(tag)
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		key, val := string(k), string(v)

		switch {
		case emptyRemovable.Has(key) && strings.TrimSpace(val) == "":
			continue
		case redundant(tag, key, val):
			continue
		}

		b.WriteByte(' ')
		b.WriteString(key)
		if booleanAttrs.Has(key) {
			continue
		}
		if val == "" {
			b.WriteString(`=""`)
			continue
		}
		b.WriteByte('=')
		if !selfClosing && unquotable(val) {
			b.WriteString(strings.ReplaceAll(val, "&", "&amp;"))
			continue
		}
		b.WriteByte('"')
		b.WriteString(html.EscapeString(val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
}

func redundant(tag, key, val string) bool {
	if key != "type" {
		return false
	}
	val = strings.ToLower(strings.TrimSpace(val))
	switch tag {
	case "input":
		return val == "text"
	case "script":
		return val == "text/javascript"
	case "style", "link":
		return val == "text/css"
	}
	return false
}

func unquotable(val string) bool {
	return !strings.ContainsAny(val, " \t\n\r\f\"'=<>`")
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}
