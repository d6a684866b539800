// Package route compiles path patterns such as "/posts/:slug/" or
// ":time(\d+).:slug.md" and uses them in both directions: matching a concrete
// path into named fields, and building a path from fields.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const defaultSegment = `[^/]+?`

var (
	// ErrInvalidPattern is returned when a pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrMissingParam is returned by Build when a placeholder has no value.
	ErrMissingParam = errors.New("missing route parameter")
	// ErrParamMismatch is returned by Build when a value violates its constraint.
	ErrParamMismatch = errors.New("route parameter does not match constraint")
	// ErrUnsupportedObject is returned by Link for objects it cannot read fields from.
	ErrUnsupportedObject = errors.New("unsupported link object")
)

// Params maps placeholder names to values.
type Params map[string]string

// Paramer is implemented by objects that can supply values for placeholders.
type Paramer interface {
	RouteParam(name string) (string, bool)
}

type part struct {
	literal    string
	name       string
	constraint *regexp.Regexp
}

// Pattern is a compiled route pattern. It is safe for concurrent use.
type Pattern struct {
	source  string
	parts   []part
	matcher *regexp.Regexp
	names   []string
}

// Compile parses a pattern. Placeholders are ":name" with an optional inline
// regular expression, e.g. ":time(\d+)". A backslash escapes the next character.
func Compile(pattern string) (*Pattern, error) {
	p := &Pattern{source: pattern}
	var re strings.Builder
	re.WriteString("^")

	var lit strings.Builder
	flush := func() {
		if lit.Len() == 0 {
			return
		}
		p.parts = append(p.parts, part{literal: lit.String()})
		re.WriteString(regexp.QuoteMeta(lit.String()))
		lit.Reset()
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			lit.WriteByte(pattern[i])
		case c == ':' && i+1 < len(pattern) && isNameByte(pattern[i+1]):
			flush()
			j := i + 1
			for j < len(pattern) && isNameByte(pattern[j]) {
				j++
			}
			name := pattern[i+1 : j]
			expr := defaultSegment
			if j < len(pattern) && pattern[j] == '(' {
				end, err := closingParen(pattern, j)
				if err != nil {
					return nil, err
				}
				expr = pattern[j+1 : end]
				j = end + 1
			}
			constraint, err := regexp.Compile(`^(?:` + expr + `)$`)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: parameter %q: %w", ErrInvalidPattern, pattern, name, err)
			}
			for _, existing := range p.names {
				if existing == name {
					return nil, fmt.Errorf("%w: %q: duplicate parameter %q", ErrInvalidPattern, pattern, name)
				}
			}
			p.parts = append(p.parts, part{name: name, constraint: constraint})
			p.names = append(p.names, name)
			re.WriteString("(" + expr + ")")
			i = j - 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	re.WriteString("$")

	matcher, err := regexp.Compile(re.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	if matcher.NumSubexp() != len(p.names) {
		return nil, fmt.Errorf("%w: %q: constraints must not contain capturing groups", ErrInvalidPattern, pattern)
	}
	p.matcher = matcher
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func closingParen(pattern string, open int) (int, error) {
	depth := 0
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q: unbalanced parenthesis", ErrInvalidPattern, pattern)
}

// String returns the source pattern.
func (p *Pattern) String() string { return p.source }

// Names returns the placeholder names in pattern order.
func (p *Pattern) Names() []string { return append([]string(nil), p.names...) }

// Match reports whether path matches the whole pattern and returns the decoded
// placeholder values.
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(Params, len(p.names))
	for i, name := range p.names {
		v := m[i+1]
		if decoded, err := url.PathUnescape(v); err == nil {
			v = decoded
		}
		params[name] = v
	}
	return params, true
}

// Build renders the pattern with values taken from params. Values are path
// escaped and must satisfy their placeholder's constraint.
func (p *Pattern) Build(params Params) (string, error) {
	var b strings.Builder
	for _, pt := range p.parts {
		if pt.name == "" {
			b.WriteString(pt.literal)
			continue
		}
		v, ok := params[pt.name]
		if !ok {
			return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, pt.name, p.source)
		}
		escaped := url.PathEscape(v)
		if !pt.constraint.MatchString(escaped) {
			return "", fmt.Errorf("%w: %q=%q in %q", ErrParamMismatch, pt.name, v, p.source)
		}
		b.WriteString(escaped)
	}
	return b.String(), nil
}

// Link compiles pattern and builds it from object, which may be Params,
// map[string]string, map[string]any or a Paramer.
func Link(pattern string, object any) (string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	params, err := paramsFor(p.names, object)
	if err != nil {
		return "", err
	}
	return p.Build(params)
}

func paramsFor(names []string, object any) (Params, error) {
	switch obj := object.(type) {
	case Params:
		return obj, nil
	case map[string]string:
		return Params(obj), nil
	case map[string]any:
		params := make(Params, len(names))
		for _, name := range names {
			if v, ok := obj[name]; ok && v != nil {
				params[name] = fmt.Sprint(v)
			}
		}
		return params, nil
	case Paramer:
		params := make(Params, len(names))
		for _, name := range names {
			if v, ok := obj.RouteParam(name); ok {
				params[name] = v
			}
		}
		return params, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedObject, object)
	}
}
