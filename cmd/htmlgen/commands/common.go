// Package commands implements the htmlgen subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/htmlgen/internal/config"
)

// Global is state shared by every subcommand.
type Global struct {
	Config *config.Config
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return io.Discard
	}
	return g.Out
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path." default:"htmlgen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Generate  GenerateCmd  `cmd:"" aliases:"html" help:"Render the content directory to HTML pages."`
	Make      MakeCmd      `cmd:"" help:"Create a new content file."`
	Move      MoveCmd      `cmd:"" help:"Rename or re-title a content file."`
	Output    OutputCmd    `cmd:"" help:"Write every content item as JSON plus an index."`
	History   HistoryCmd   `cmd:"" help:"List recorded generation runs."`
	Templates TemplatesCmd `cmd:"" help:"List the available templates."`
}

// AfterApply loads the configuration and sets up logging once flags are parsed.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return err
	}
	g.Config = cfg
	level := parseLogLevel(c.Verbose, cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// parseLogLevel picks debug for --verbose, then HTMLGEN_LOG_LEVEL, then the
// configured level.
func parseLogLevel(verbose bool, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv("HTMLGEN_LOG_LEVEL"); env != "" {
		if l, err := config.ParseLogLevel(env); err == nil {
			return l.Slog()
		}
	}
	return configured.Slog()
}

// firstNonEmpty returns the first non-empty value, so flags win over config.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
