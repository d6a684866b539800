package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("load", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("load", ResultSuccess)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.AddPagesWritten(6)
	pr.SetContentItems(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}
	assert.InDelta(t, 6, byName["htmlgen_pages_written_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 3, byName["htmlgen_content_items"].GetMetric()[0].GetGauge().GetValue(), 0)
	assert.InDelta(t, 1, byName["htmlgen_run_outcomes_total"].GetMetric()[0].GetCounter().GetValue(), 0)
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("load", time.Second)
		pr.IncRunOutcome(OutcomeFailed)
		pr.AddPagesWritten(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).AddPagesWritten(2)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "htmlgen_pages_written_total 2")
}
