package site

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/htmlgen/internal/content"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/fragment"
	"git.home.luguber.info/inful/htmlgen/internal/markdown"
	"git.home.luguber.info/inful/htmlgen/internal/minify"
	"git.home.luguber.info/inful/htmlgen/internal/templates"
)

// Options selects what a Generator reads, renders and writes.
type Options struct {
	ContentDir  string
	Destination string
	// Pattern filters content file base names; empty means content.DefaultPattern.
	Pattern  string
	Template string
	Minify   bool
}

// Generator runs generation passes. A Generator may be reused for any number
// of runs but runs must not overlap.
type Generator struct {
	Options   Options
	Templates *templates.Registry
	Renderer  markdown.Renderer
	Observer  Observer
	Out       io.Writer
	Now       func() time.Time
}

// NewGenerator returns a Generator using the built-in templates and the
// default markdown renderer.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		Options:   opts,
		Templates: templates.Default(),
		Renderer:  markdown.NewRenderer(markdown.Options{}),
		Observer:  NoopObserver{},
		Out:       io.Discard,
		Now:       time.Now,
	}
}

// Run performs one generation pass. The returned report is non-nil even when
// the run fails.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:          uuid.NewString(),
		Template:       g.Options.Template,
		Content:        g.Options.ContentDir,
		Destination:    g.Options.Destination,
		Start:          g.now(),
		StageDurations: make(map[StageName]time.Duration, len(Stages)),
	}

	g.observer().OnRunStart(report)
	err := g.run(ctx, report)
	report.finish(g.now(), err)
	g.observer().OnRunComplete(report)
	return report, err
}

func (g *Generator) run(ctx context.Context, report *Report) error {
	tpl, err := g.Templates.Lookup(g.Options.Template)
	if err != nil {
		return err
	}

	var items []content.Item
	err = g.stage(ctx, report, StageLoad, func(ctx context.Context) error {
		loader := content.NewLoader(g.Options.ContentDir, g.Renderer)
		loader.Pattern = g.Options.Pattern
		loader.Now = g.now
		items, err = loader.Load(ctx)
		return err
	})
	if err != nil {
		return err
	}
	report.Items = len(items)

	reg := fragment.NewRegistry()
	var root fragment.Token
	err = g.stage(ctx, report, StageTemplate, func(context.Context) error {
		root, err = runTemplate(tpl, g.Options.Template, &templates.Scope{Content: items, Registry: reg})
		return err
	})
	if err != nil {
		return err
	}
	report.Pages = reg.Pages()

	var pages []Page
	err = g.stage(ctx, report, StageResolve, func(ctx context.Context) error {
		pages, err = g.resolve(ctx, reg, root)
		return err
	})
	if err != nil {
		return err
	}

	return g.stage(ctx, report, StageWrite, func(ctx context.Context) error {
		w := NewWriter(g.Options.Destination, g.Out)
		report.Files, err = w.Write(ctx, pages)
		return err
	})
}

func (g *Generator) stage(ctx context.Context, report *Report, name StageName, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	report.StageDurations[name] = d
	g.observer().OnStageComplete(report.RunID, name, d, err)
	return err
}

func runTemplate(tpl templates.Func, name string, scope *templates.Scope) (root fragment.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ferrors.TemplateError("template panicked").
				WithContext("template", name).
				WithCause(fmt.Errorf("%v", r)).
				Build()
		}
	}()
	root = tpl(scope)
	if root.IsZero() {
		return root, ferrors.TemplateError("template returned no fragment").
			WithContext("template", name).
			Build()
	}
	return root, nil
}

func (g *Generator) resolve(ctx context.Context, reg *fragment.Registry, root fragment.Token) ([]Page, error) {
	routes := reg.Pages()
	pages := make([]Page, 0, len(routes))
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := reg.Resolve(route, root)
		if err != nil {
			return nil, ferrors.TemplateError("failed to resolve page").
				WithContext("page", route).
				WithCause(err).
				Build()
		}
		if g.Options.Minify {
			if out, err = minify.HTML(out); err != nil {
				return nil, ferrors.TemplateError("failed to minify page").
					WithContext("page", route).
					WithCause(err).
					Build()
			}
		}
		pages = append(pages, Page{Route: route, HTML: out})
	}
	return pages, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) observer() Observer {
	if g.Observer != nil {
		return g.Observer
	}
	return NoopObserver{}
}
