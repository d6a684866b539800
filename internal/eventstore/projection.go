package eventstore

import (
	"context"
	"slices"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunSummary is the read model of one run.
type RunSummary struct {
	RunID       string           `json:"run_id"`
	Template    string           `json:"template"`
	Content     string           `json:"content"`
	Destination string           `json:"destination"`
	Status      string           `json:"status"`
	Outcome     string           `json:"outcome,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Duration    time.Duration    `json:"duration"`
	Items       int              `json:"items"`
	Pages       int              `json:"pages"`
	Error       string           `json:"error,omitempty"`
	Stages      map[string]int64 `json:"stages_ms,omitempty"`
}

// Summarize folds events into one summary per run, newest run first.
func Summarize(events []Event) ([]RunSummary, error) {
	runs := make(map[string]*RunSummary)
	var order []string

	for _, e := range events {
		s, ok := runs[e.RunID()]
		if !ok {
			s = &RunSummary{RunID: e.RunID(), Status: StatusRunning, StartedAt: e.Timestamp()}
			runs[e.RunID()] = s
			order = append(order, e.RunID())
		}

		switch e.Type() {
		case TypeRunStarted:
			var p RunStarted
			if err := DecodePayload(e, &p); err != nil {
				return nil, err
			}
			s.Template, s.Content, s.Destination = p.Template, p.Content, p.Destination
			s.StartedAt = e.Timestamp()
		case TypeStageCompleted:
			var p StageCompleted
			if err := DecodePayload(e, &p); err != nil {
				return nil, err
			}
			if s.Stages == nil {
				s.Stages = make(map[string]int64)
			}
			s.Stages[p.Stage] = p.DurationMS
		case TypeRunCompleted:
			var p RunCompleted
			if err := DecodePayload(e, &p); err != nil {
				return nil, err
			}
			ts := e.Timestamp()
			s.Status, s.Outcome, s.CompletedAt = StatusCompleted, p.Outcome, &ts
			s.Items, s.Pages = p.Items, p.Pages
			s.Duration = time.Duration(p.DurationMS) * time.Millisecond
		case TypeRunFailed:
			var p RunFailed
			if err := DecodePayload(e, &p); err != nil {
				return nil, err
			}
			ts := e.Timestamp()
			s.Status, s.Outcome, s.CompletedAt = StatusFailed, p.Outcome, &ts
			s.Error = p.Error
			s.Duration = time.Duration(p.DurationMS) * time.Millisecond
		}
	}

	out := make([]RunSummary, 0, len(order))
	for _, id := range slices.Backward(order) {
		out = append(out, *runs[id])
	}
	return out, nil
}

// History returns the summaries of runs with events since the given time.
func History(ctx context.Context, store Store, since, until time.Time) ([]RunSummary, error) {
	events, err := store.GetRange(ctx, since, until)
	if err != nil {
		return nil, err
	}
	return Summarize(events)
}
