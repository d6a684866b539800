package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/htmlgen/internal/export"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/watch"
)

// OutputCmd exports content items as JSON.
type OutputCmd struct {
	Content     string `arg:"" optional:"" help:"Content directory."`
	Destination string `arg:"" optional:"" help:"Destination directory for the JSON files."`
	Watch       bool   `short:"w" help:"Export again when content changes."`
	Pattern     string `help:"Glob matched against content file names (default: *.md)."`
}

func (o *OutputCmd) exporter(global *Global) (*export.Exporter, error) {
	cfg := global.Config
	e := &export.Exporter{
		ContentDir:  o.Content,
		Destination: o.Destination,
		Pattern:     o.Pattern,
		Out:         global.out(),
	}
	if cfg != nil {
		e.ContentDir = firstNonEmpty(e.ContentDir, cfg.Content.Dir)
		e.Destination = firstNonEmpty(e.Destination, cfg.Output.Destination)
		e.Pattern = firstNonEmpty(e.Pattern, cfg.Content.Pattern)
	}
	if e.ContentDir == "" {
		return nil, ferrors.ValidationError("content directory is required").Build()
	}
	if e.Destination == "" {
		return nil, ferrors.ValidationError("destination directory is required").Build()
	}
	return e, nil
}

func (o *OutputCmd) Run(global *Global, _ *CLI) error {
	e, err := o.exporter(global)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := func(ctx context.Context) error {
		_, err := e.Run(ctx)
		return err
	}
	if !o.Watch {
		return run(ctx)
	}
	opts := watch.Options{Paths: []string{e.ContentDir}}
	if global.Config != nil {
		opts.Debounce = global.Config.Watch.Debounce
	}
	return watch.New(opts).Run(ctx, run)
}
