package site

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/metrics"
)

// Observer receives callbacks around stage execution and run completion.
type Observer interface {
	OnRunStart(report *Report)
	OnStageComplete(runID string, stage StageName, d time.Duration, err error)
	OnRunComplete(report *Report)
}

// NoopObserver ignores every callback.
type NoopObserver struct{}

func (NoopObserver) OnRunStart(*Report)                                      {}
func (NoopObserver) OnStageComplete(string, StageName, time.Duration, error) {}
func (NoopObserver) OnRunComplete(*Report)                                   {}

// MultiObserver fans callbacks out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnRunStart(report *Report) {
	for _, o := range m {
		if o != nil {
			o.OnRunStart(report)
		}
	}
}

func (m MultiObserver) OnStageComplete(runID string, stage StageName, d time.Duration, err error) {
	for _, o := range m {
		if o != nil {
			o.OnStageComplete(runID, stage, d, err)
		}
	}
}

func (m MultiObserver) OnRunComplete(report *Report) {
	for _, o := range m {
		if o != nil {
			o.OnRunComplete(report)
		}
	}
}

// RecorderObserver adapts a metrics.Recorder into an Observer.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (RecorderObserver) OnRunStart(*Report) {}

func (r RecorderObserver) OnStageComplete(_ string, stage StageName, d time.Duration, err error) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveStageDuration(string(stage), d)
	r.Recorder.IncStageResult(string(stage), stageResult(err))
}

func (r RecorderObserver) OnRunComplete(report *Report) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveRunDuration(report.Duration())
	r.Recorder.IncRunOutcome(report.Outcome)
	r.Recorder.SetContentItems(report.Items)
	r.Recorder.AddPagesWritten(len(report.Files))
}

// LogObserver logs stage timings at debug level and run results at info level.
type LogObserver struct{}

func (LogObserver) OnRunStart(report *Report) {
	slog.Info("Generating site",
		logfields.RunID(report.RunID),
		logfields.Template(report.Template),
		logfields.Path(report.Content))
}

func (LogObserver) OnStageComplete(runID string, stage StageName, d time.Duration, err error) {
	if err != nil {
		slog.Debug("Stage failed", logfields.RunID(runID), logfields.Stage(string(stage)), logfields.Duration(d), logfields.Error(err))
		return
	}
	slog.Debug("Stage completed", logfields.RunID(runID), logfields.Stage(string(stage)), logfields.Duration(d))
}

func (LogObserver) OnRunComplete(report *Report) {
	if report.Outcome != metrics.OutcomeSuccess {
		slog.Warn("Generation did not complete",
			logfields.RunID(report.RunID),
			slog.String("outcome", string(report.Outcome)),
			slog.String(logfields.KeyError, report.Error))
		return
	}
	slog.Info("Generation completed",
		logfields.RunID(report.RunID),
		logfields.Template(report.Template),
		logfields.Items(report.Items),
		logfields.Pages(len(report.Pages)),
		logfields.Duration(report.Duration()))
}
