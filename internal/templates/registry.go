// Package templates holds the named site templates available to the generator.
package templates

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"git.home.luguber.info/inful/htmlgen/internal/content"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/fragment"
)

// ErrUnknownTemplate is the cause of Lookup failures.
var ErrUnknownTemplate = errors.New("unknown template")

// Scope is what a template receives: the loaded content, newest first, and the
// fragment registry of the current run.
type Scope struct {
	Content []content.Item
	*fragment.Registry
}

// Func builds the root fragment of a site. Every page it declares through
// Route is rendered by resolving the returned token.
type Func func(s *Scope) fragment.Token

// Registry maps template names to functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces a template.
func (r *Registry) Register(name string, fn Func) {
	if name == "" || fn == nil {
		panic("templates: Register requires a name and a function")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the named template.
func (r *Registry) Lookup(name string) (Func, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ferrors.ConfigError("unknown template").
			WithContext("template", name).
			WithContext("available", strings.Join(r.Names(), ",")).
			WithCause(ErrUnknownTemplate).
			Build()
	}
	return fn, nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry holding the built-in templates.
func Default() *Registry { return defaultRegistry }

// Register adds a template to the default registry.
func Register(name string, fn Func) { defaultRegistry.Register(name, fn) }

// Lookup finds a template in the default registry.
func Lookup(name string) (Func, error) { return defaultRegistry.Lookup(name) }

// Names lists the templates of the default registry.
func Names() []string { return defaultRegistry.Names() }
