// Package normalization maps loosely written configuration values onto a
// closed set of names.
package normalization

import (
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

// Enum recognizes the values of a string-backed enum, ignoring case and
// surrounding whitespace.
type Enum[T ~string] struct {
	name     string
	values   map[string]T
	fallback T
}

// NewEnum builds an Enum over values. fallback is returned for empty input.
func NewEnum[T ~string](name string, fallback T, values ...T) *Enum[T] {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[clean(string(v))] = v
	}
	return &Enum[T]{name: name, values: m, fallback: fallback}
}

// Parse returns the enum value for raw. Unknown values are a config error.
func (e *Enum[T]) Parse(raw string) (T, error) {
	c := clean(raw)
	if c == "" {
		return e.fallback, nil
	}
	if v, ok := e.values[c]; ok {
		return v, nil
	}
	return e.fallback, ferrors.ConfigError("invalid "+e.name).
		WithContext("value", raw).
		WithContext("valid", strings.Join(e.Values(), ", ")).
		Build()
}

// Normalize is Parse without the error.
func (e *Enum[T]) Normalize(raw string) T {
	v, _ := e.Parse(raw)
	return v
}

// Values lists the accepted spellings in order.
func (e *Enum[T]) Values() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
