package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlgen/internal/metrics"
	"git.home.luguber.info/inful/htmlgen/internal/site"
)

func TestObserverRecordsRuns(t *testing.T) {
	store := newTestStore(t)
	obs := NewObserver(store)

	start := time.Now()
	ok := &site.Report{
		RunID:       "ok",
		Template:    "blog",
		Content:     "content",
		Destination: "build",
		Start:       start,
	}
	obs.OnRunStart(ok)
	obs.OnStageComplete("ok", site.StageLoad, 12*time.Millisecond, nil)
	ok.End = start.Add(40 * time.Millisecond)
	ok.Items = 3
	ok.Pages = []string{"/", "/posts/"}
	ok.Files = []string{"index.html", "posts/index.html"}
	ok.Outcome = metrics.OutcomeSuccess
	obs.OnRunComplete(ok)

	bad := &site.Report{RunID: "bad", Template: "blog", Start: start}
	obs.OnRunStart(bad)
	obs.OnStageComplete("bad", site.StageLoad, time.Millisecond, errors.New("broken file"))
	bad.End = start.Add(time.Millisecond)
	bad.Outcome = metrics.OutcomeFailed
	bad.Error = "broken file"
	obs.OnRunComplete(bad)

	events, err := store.GetByRunID(t.Context(), "ok")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{TypeRunStarted, TypeStageCompleted, TypeRunCompleted},
		[]string{events[0].Type(), events[1].Type(), events[2].Type()})

	summaries, err := History(t.Context(), store, start.Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "bad", summaries[0].RunID)
	assert.Equal(t, StatusFailed, summaries[0].Status)
	assert.Equal(t, "broken file", summaries[0].Error)

	good := summaries[1]
	assert.Equal(t, "ok", good.RunID)
	assert.Equal(t, StatusCompleted, good.Status)
	assert.Equal(t, "success", good.Outcome)
	assert.Equal(t, "blog", good.Template)
	assert.Equal(t, 3, good.Items)
	assert.Equal(t, 2, good.Pages)
	assert.Equal(t, 40*time.Millisecond, good.Duration)
	assert.Equal(t, int64(12), good.Stages["load"])
	assert.NotNil(t, good.CompletedAt)
}

func TestSummarizeRunningAndBadPayload(t *testing.T) {
	events := []Event{
		&BaseEvent{EventRunID: "r", EventType: TypeRunStarted, EventPayload: []byte(`{"template":"blog"}`)},
	}
	summaries, err := Summarize(events)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, StatusRunning, summaries[0].Status)

	_, err = Summarize([]Event{&BaseEvent{EventRunID: "r", EventType: TypeRunCompleted, EventPayload: []byte("nope")}})
	require.Error(t, err)
}
