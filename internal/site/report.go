package site

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/metrics"
)

// StageName identifies one step of a generation run.
type StageName string

const (
	StageLoad     StageName = "load"
	StageTemplate StageName = "template"
	StageResolve  StageName = "resolve"
	StageWrite    StageName = "write"
)

// Stages lists the stages in execution order.
var Stages = []StageName{StageLoad, StageTemplate, StageResolve, StageWrite}

// Report summarizes one generation run.
type Report struct {
	RunID          string                      `json:"run_id"`
	Template       string                      `json:"template"`
	Content        string                      `json:"content"`
	Destination    string                      `json:"destination"`
	Start          time.Time                   `json:"start"`
	End            time.Time                   `json:"end"`
	Items          int                         `json:"items"`
	Pages          []string                    `json:"pages"`
	Files          []string                    `json:"files"`
	StageDurations map[StageName]time.Duration `json:"stage_durations"`
	Outcome        metrics.OutcomeLabel        `json:"outcome"`
	Error          string                      `json:"error,omitempty"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

func (r *Report) finish(end time.Time, err error) {
	r.End = end
	switch {
	case err == nil:
		r.Outcome = metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.Outcome = metrics.OutcomeCanceled
		r.Error = err.Error()
	default:
		r.Outcome = metrics.OutcomeFailed
		r.Error = err.Error()
	}
}

func stageResult(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}
