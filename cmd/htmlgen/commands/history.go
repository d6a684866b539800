package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

// HistoryCmd lists runs recorded by generate --history.
type HistoryCmd struct {
	DB    string        `name:"db" help:"SQLite run history (default: history.path from the configuration)."`
	Since time.Duration `default:"24h" help:"How far back to look."`
	JSON  bool          `name:"json" help:"Print JSON instead of a table."`
}

func (h *HistoryCmd) Run(global *Global, _ *CLI) error {
	path := h.DB
	if path == "" && global.Config != nil {
		path = global.Config.History.Path
	}
	if path == "" {
		return ferrors.ValidationError("history database is required").Build()
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	runs, err := eventstore.History(context.Background(), store, now.Add(-h.Since), now)
	if err != nil {
		return err
	}
	if h.JSON {
		enc := json.NewEncoder(global.out())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	return printRuns(global.out(), runs)
}

func printRuns(w io.Writer, runs []eventstore.RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tRUN\tTEMPLATE\tSTATUS\tITEMS\tPAGES\tDURATION")
	for _, r := range runs {
		status := r.Status
		if r.Outcome != "" {
			status = r.Outcome
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			shortID(r.RunID),
			r.Template,
			status,
			r.Items,
			r.Pages,
			r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
