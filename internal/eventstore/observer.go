package eventstore

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/metrics"
	"git.home.luguber.info/inful/htmlgen/internal/site"
)

const appendTimeout = 5 * time.Second

// Observer records generation runs into a Store. Failures to record are
// logged and never fail the run.
type Observer struct {
	store Store
}

// NewObserver returns an Observer writing to store.
func NewObserver(store Store) *Observer {
	return &Observer{store: store}
}

func (o *Observer) OnRunStart(report *site.Report) {
	o.append(report.RunID, TypeRunStarted, RunStarted{
		Template:    report.Template,
		Content:     report.Content,
		Destination: report.Destination,
	})
}

func (o *Observer) OnStageComplete(runID string, stage site.StageName, d time.Duration, err error) {
	p := StageCompleted{Stage: string(stage), DurationMS: d.Milliseconds()}
	if err != nil {
		p.Error = err.Error()
	}
	o.append(runID, TypeStageCompleted, p)
}

func (o *Observer) OnRunComplete(report *site.Report) {
	if report.Outcome == metrics.OutcomeSuccess {
		o.append(report.RunID, TypeRunCompleted, RunCompleted{
			Items:      report.Items,
			Pages:      len(report.Pages),
			Files:      len(report.Files),
			DurationMS: report.Duration().Milliseconds(),
			Outcome:    string(report.Outcome),
		})
		return
	}
	o.append(report.RunID, TypeRunFailed, RunFailed{
		Error:      report.Error,
		Outcome:    string(report.Outcome),
		DurationMS: report.Duration().Milliseconds(),
	})
}

func (o *Observer) append(runID, eventType string, payload any) {
	data, err := encodePayload(payload)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		err = o.store.Append(ctx, runID, eventType, data, nil)
	}
	if err != nil {
		slog.Warn("Failed to record run event",
			logfields.RunID(runID),
			slog.String("type", eventType),
			logfields.Error(err))
	}
}
