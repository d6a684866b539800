package fragment

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"

	"git.home.luguber.info/inful/htmlgen/internal/route"
	"git.home.luguber.info/inful/htmlgen/internal/util/sets"
)

var (
	// ErrForeignToken is returned when a token created by another registry is resolved.
	ErrForeignToken = errors.New("token belongs to another registry")
	// ErrUnknownToken is returned for tokens with a handle the registry never issued.
	ErrUnknownToken = errors.New("unknown token")
)

var registrySeq atomic.Uint64

// Token is an opaque handle to a fragment. The zero Token is invalid.
type Token struct {
	registry uint64
	handle   uint32
}

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool { return t.registry == 0 }

func (t Token) String() string { return fmt.Sprintf("fragment(%d:%d)", t.registry, t.handle) }

type kind uint8

const (
	kindPage kind = iota
	kindSafe
	kindSequence
	kindRoute
)

// literal is template markup taken verbatim.
type literal string

type fragment struct {
	kind   kind
	value  any
	parts  []any
	routes map[string]any
}

// On declares a page for a route and the content it shows at the route's position.
type On func(page string, content any)

// Definer declares the pages of a route by calling on for each of them.
type Definer func(on On)

type memoKey struct {
	page   string
	handle uint32
}

// Registry owns the fragments of one generation run. Tokens are built on a
// single goroutine while the template runs; Resolve may then be called
// concurrently.
type Registry struct {
	id    uint64
	frags []fragment
	pages sets.Ordered[string]

	mu   sync.RWMutex
	memo map[memoKey]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		id:    registrySeq.Add(1),
		frags: []fragment{{kind: kindPage}},
		memo:  make(map[memoKey]string),
	}
}

func (r *Registry) add(f fragment) Token {
	r.frags = append(r.frags, f)
	return Token{registry: r.id, handle: uint32(len(r.frags) - 1)}
}

// HTML builds a sequence from template literals and the values between them:
// literals[0], values[0], literals[1], values[1], ... Literals are trusted
// markup. Values are kept as given and escaped only at resolution unless they
// are tokens. Nil values are skipped.
func (r *Registry) HTML(literals []string, values ...any) Token {
	parts := make([]any, 0, len(literals)+len(values))
	for i := 0; i < len(literals) || i < len(values); i++ {
		if i < len(literals) && literals[i] != "" {
			parts = append(parts, literal(literals[i]))
		}
		if i < len(values) && values[i] != nil {
			parts = append(parts, values[i])
		}
	}
	return r.add(fragment{kind: kindSequence, parts: parts})
}

// Markup is HTML with the literals taken from format, split at every "%v".
// It panics when the number of placeholders and values differ.
func (r *Registry) Markup(format string, values ...any) Token {
	literals := strings.Split(format, "%v")
	if len(literals)-1 != len(values) {
		panic(fmt.Sprintf("fragment: markup has %d placeholders but %d values", len(literals)-1, len(values)))
	}
	return r.HTML(literals, values...)
}

// Safe marks value as trusted markup.
func (r *Registry) Safe(value any) Token {
	return r.add(fragment{kind: kindSafe, value: value})
}

// Route with a nil definer returns the current-page token. Otherwise define is
// called synchronously; every page it declares is added to the page set and
// the returned token resolves to that page's content.
func (r *Registry) Route(define Definer) Token {
	if define == nil {
		return Token{registry: r.id}
	}
	routes := make(map[string]any)
	define(func(page string, content any) {
		r.pages.Add(page)
		routes[page] = content
	})
	return r.add(fragment{kind: kindRoute, routes: routes})
}

// Page returns the current-page token.
func (r *Registry) Page() Token { return r.Route(nil) }

// Link builds a path from a route pattern and an object's fields.
func (r *Registry) Link(pattern string, object any) (string, error) {
	return route.Link(pattern, object)
}

// MustLink is like Link but panics on error.
func (r *Registry) MustLink(pattern string, object any) string {
	link, err := route.Link(pattern, object)
	if err != nil {
		panic(err)
	}
	return link
}

// Pages returns the declared pages in declaration order.
func (r *Registry) Pages() []string { return r.pages.Values() }

// Resolve renders root for page.
func (r *Registry) Resolve(page string, root Token) (string, error) {
	var b strings.Builder
	if err := r.resolveToken(&b, page, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Registry) lookup(t Token) (fragment, error) {
	if t.registry != r.id {
		return fragment{}, fmt.Errorf("%w: %s", ErrForeignToken, t)
	}
	if int(t.handle) >= len(r.frags) {
		return fragment{}, fmt.Errorf("%w: %s", ErrUnknownToken, t)
	}
	return r.frags[t.handle], nil
}

func (r *Registry) resolveToken(b *strings.Builder, page string, t Token) error {
	f, err := r.lookup(t)
	if err != nil {
		return err
	}
	if f.kind == kindPage {
		b.WriteString(page)
		return nil
	}

	key := memoKey{page: page, handle: t.handle}
	r.mu.RLock()
	cached, ok := r.memo[key]
	r.mu.RUnlock()
	if ok {
		b.WriteString(cached)
		return nil
	}

	var out strings.Builder
	switch f.kind {
	case kindSafe:
		err = r.resolveValue(&out, page, f.value, true)
	case kindSequence:
		for _, part := range f.parts {
			if err = r.resolveValue(&out, page, part, false); err != nil {
				break
			}
		}
	case kindRoute:
		if content, declared := f.routes[page]; declared {
			err = r.resolveValue(&out, page, content, false)
		}
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.memo[key] = out.String()
	r.mu.Unlock()
	b.WriteString(out.String())
	return nil
}

func (r *Registry) resolveValue(b *strings.Builder, page string, v any, safe bool) error {
	switch val := v.(type) {
	case nil:
		return nil
	case Token:
		return r.resolveToken(b, page, val)
	case literal:
		b.WriteString(string(val))
	case []Token:
		for _, t := range val {
			if err := r.resolveToken(b, page, t); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range val {
			if err := r.resolveValue(b, page, e, safe); err != nil {
				return err
			}
		}
	case []string:
		for _, s := range val {
			writeText(b, s, safe)
		}
	default:
		writeText(b, fmt.Sprint(val), safe)
	}
	return nil
}

func writeText(b *strings.Builder, s string, safe bool) {
	if safe {
		b.WriteString(s)
		return
	}
	b.WriteString(html.EscapeString(s))
}
