package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/htmlgen/internal/config"
	"git.home.luguber.info/inful/htmlgen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/git"
	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/metrics"
	"git.home.luguber.info/inful/htmlgen/internal/notify"
	"git.home.luguber.info/inful/htmlgen/internal/retry"
	"git.home.luguber.info/inful/htmlgen/internal/site"
	"git.home.luguber.info/inful/htmlgen/internal/watch"
	"git.home.luguber.info/inful/htmlgen/internal/workspace"
)

// GenerateCmd renders the content directory through a template.
type GenerateCmd struct {
	Content       string        `arg:"" optional:"" help:"Content directory (relative to the checkout with --content-repo)."`
	Destination   string        `arg:"" optional:"" help:"Destination directory for the generated pages."`
	Template      string        `short:"t" help:"Template name (default: blog)."`
	NoMin         bool          `name:"no-min" help:"Skip HTML minification."`
	Watch         bool          `short:"w" help:"Regenerate when content changes."`
	Pattern       string        `help:"Glob matched against content file names (default: *.md)."`
	Every         time.Duration `help:"Also regenerate on this interval."`
	ContentRepo   string        `name:"content-repo" help:"Git repository to clone the content from."`
	ContentBranch string        `name:"content-branch" help:"Branch of the content repository."`
	History       string        `help:"SQLite database recording every run."`
	NatsURL       string        `name:"nats-url" help:"NATS server receiving a message after every run."`
	NatsSubject   string        `name:"nats-subject" help:"NATS subject for run messages."`
	MetricsAddr   string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address."`
}

// generatePlan is the merged result of flags and configuration.
type generatePlan struct {
	site     site.Options
	repo     *git.Repository
	retry    retry.Policy
	checkout string
	watch    bool
	debounce time.Duration
	every    time.Duration
	history  string
	natsURL  string
	subject  string
	metrics  string
}

func (g *GenerateCmd) plan(cfg *config.Config) (generatePlan, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	p := generatePlan{
		site: site.Options{
			ContentDir:  firstNonEmpty(g.Content, cfg.Content.Dir),
			Destination: firstNonEmpty(g.Destination, cfg.Output.Destination),
			Pattern:     firstNonEmpty(g.Pattern, cfg.Content.Pattern),
			Template:    firstNonEmpty(g.Template, cfg.Template),
			Minify:      cfg.Output.MinifyEnabled() && !g.NoMin,
		},
		watch:    g.Watch,
		debounce: cfg.Watch.Debounce,
		every:    cfg.Watch.Every,
		history:  firstNonEmpty(g.History, cfg.History.Path),
		natsURL:  firstNonEmpty(g.NatsURL, cfg.Notify.URL),
		subject:  firstNonEmpty(g.NatsSubject, cfg.Notify.Subject),
		metrics:  firstNonEmpty(g.MetricsAddr, cfg.Metrics.Addr),
	}
	if g.Every > 0 {
		p.every = g.Every
	}

	repo := cfg.Content.Repository
	if g.ContentRepo != "" {
		repo = &config.RepositoryConfig{URL: g.ContentRepo, Branch: g.ContentBranch, Depth: 1, Workspace: config.DefaultWorkspace}
		if cfg.Content.Repository != nil && cfg.Content.Repository.Workspace != "" {
			repo.Workspace = cfg.Content.Repository.Workspace
		}
	}
	if repo != nil {
		p.repo = &git.Repository{URL: repo.URL, Branch: firstNonEmpty(g.ContentBranch, repo.Branch), Depth: repo.Depth}
		p.checkout = repo.Workspace
		p.retry = retry.NewPolicy(retry.Linear, 0, 0, repo.RetryCount())
	} else if p.site.ContentDir == "" {
		return p, ferrors.ValidationError("content directory is required").Build()
	}
	if p.site.Destination == "" {
		return p, ferrors.ValidationError("destination directory is required").Build()
	}
	return p, nil
}

func (g *GenerateCmd) Run(global *Global, _ *CLI) error {
	p, err := g.plan(global.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runGenerate(ctx, p, global)
}

func runGenerate(ctx context.Context, p generatePlan, global *Global) error {
	observers := site.MultiObserver{site.LogObserver{}}

	var client *git.Client
	if p.repo != nil {
		ws := workspace.Persistent(p.checkout, "content")
		if err := ws.Create(); err != nil {
			return err
		}
		dir, err := ws.Join(p.site.ContentDir)
		if err != nil {
			return err
		}
		p.site.ContentDir = dir
		client = git.NewClient(ws.Path()).WithRetry(p.retry)
	}

	if p.metrics != "" {
		reg := prom.NewRegistry()
		observers = append(observers, site.RecorderObserver{Recorder: metrics.NewPrometheusRecorder(reg)})
		stop := serveMetrics(p.metrics, reg)
		defer stop()
	}

	if p.history != "" {
		store, err := eventstore.NewSQLiteStore(p.history)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		observers = append(observers, eventstore.NewObserver(store))
	}

	if p.natsURL != "" {
		n, err := notify.Connect(p.natsURL, p.subject)
		if err != nil {
			return ferrors.NewError(ferrors.CategoryNetwork, "failed to connect to NATS").
				WithContext("url", p.natsURL).WithCause(err).Build()
		}
		defer n.Close()
		observers = append(observers, n)
	}

	gen := site.NewGenerator(p.site)
	gen.Observer = observers
	gen.Out = global.out()

	sync := func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		_, err := client.Sync(ctx, *p.repo)
		return err
	}
	run := func(ctx context.Context) error {
		if err := sync(ctx); err != nil {
			return err
		}
		_, err := gen.Run(ctx)
		return err
	}

	if !p.watch && p.every <= 0 {
		return run(ctx)
	}

	// The checkout must exist before its content directory can be watched.
	if p.watch {
		if err := sync(ctx); err != nil {
			return err
		}
	}

	var paths []string
	if p.watch {
		paths = []string{p.site.ContentDir}
	}
	slog.Info("Watching for changes", logfields.Path(p.site.ContentDir), slog.Duration("every", p.every))
	return watch.New(watch.Options{Paths: paths, Debounce: p.debounce, Every: p.every}).Run(ctx, run)
}

// serveMetrics exposes reg on addr and returns a function shutting the
// server down.
func serveMetrics(addr string, reg *prom.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", logfields.URL("http://"+addr+"/metrics"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
