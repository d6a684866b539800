package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("load", time.Millisecond)
	r.ObserveRunDuration(time.Millisecond)
	r.IncStageResult("load", ResultFatal)
	r.IncRunOutcome(OutcomeCanceled)
	r.AddPagesWritten(1)
	r.SetContentItems(1)
}
