package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ipwatch/internal/model"
	"github.com/user/ipwatch/internal/timeline"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestMachine() (*Machine, *timeline.Timeline) {
	tl := timeline.New()
	return NewMachine(tl, 30*time.Second), tl
}

func TestFullCycleCommitsReading(t *testing.T) {
	m, tl := newTestMachine()
	outcome := model.Succeeded("1.2.3.4", 10.0, 20.0)

	require.True(t, m.HandleTrigger(t0), "idle trigger must issue a probe")
	assert.Equal(t, AwaitingResponse, m.State())

	require.True(t, m.HandleResponse(outcome), "response must request a clock read")
	assert.Equal(t, AwaitingCommit, m.State())

	require.True(t, m.HandleClock(t0.Add(40*time.Millisecond)))
	assert.Equal(t, Idle, m.State())

	require.Equal(t, 1, tl.Len())
	entry := tl.At(0)
	assert.Equal(t, timeline.KindReading, entry.Kind)
	assert.Equal(t, outcome, entry.Reading.Outcome)
	assert.Equal(t, t0, entry.Reading.TriggeredAt)
	assert.Equal(t, 40*time.Millisecond, entry.Reading.RoundTrip())
}

func TestFailedProbeCommitsFailedReading(t *testing.T) {
	m, tl := newTestMachine()

	m.HandleTrigger(t0)
	m.HandleResponse(model.Failed())
	m.HandleClock(t0.Add(time.Second))

	require.Equal(t, 1, tl.Len())
	assert.False(t, tl.At(0).Reading.Outcome.OK)
}

func TestOverlappingTriggerInsertsGapAndKeepsState(t *testing.T) {
	m, tl := newTestMachine()

	m.HandleTrigger(t0)
	require.Equal(t, AwaitingResponse, m.State())

	issued := m.HandleTrigger(t0.Add(5 * time.Second))

	assert.False(t, issued, "overlapping trigger must not start a second probe")
	assert.Equal(t, AwaitingResponse, m.State(), "in-flight cycle must be left alone")
	assert.Equal(t, t0, m.TriggeredAt())

	require.Equal(t, 1, tl.Len())
	assert.Equal(t, timeline.KindGap, tl.At(0).Kind)
	assert.Equal(t, 5*time.Second, tl.At(0).Gap)
}

func TestRepeatedLatenessCoalescesIntoOneGap(t *testing.T) {
	m, tl := newTestMachine()

	m.HandleTrigger(t0)
	m.HandleTrigger(t0.Add(30 * time.Second))
	m.HandleTrigger(t0.Add(60 * time.Second))

	require.Equal(t, 1, tl.Len())
	assert.Equal(t, timeline.KindGap, tl.At(0).Kind)
	assert.Equal(t, 60*time.Second, tl.At(0).Gap)
}

func TestTriggerWhileAwaitingCommitInsertsGap(t *testing.T) {
	m, tl := newTestMachine()

	m.HandleTrigger(t0)
	m.HandleResponse(model.Failed())
	require.Equal(t, AwaitingCommit, m.State())

	issued := m.HandleTrigger(t0.Add(2 * time.Second))

	assert.False(t, issued)
	assert.Equal(t, AwaitingCommit, m.State())
	require.Equal(t, 1, tl.Len())
	assert.Equal(t, timeline.KindGap, tl.At(0).Kind)
}

func TestLateCycleStillCommitsAfterGap(t *testing.T) {
	m, tl := newTestMachine()
	outcome := model.Succeeded("1.2.3.4", 10.0, 20.0)

	m.HandleTrigger(t0)
	m.HandleTrigger(t0.Add(30 * time.Second))
	m.HandleResponse(outcome)
	m.HandleClock(t0.Add(31 * time.Second))

	require.Equal(t, 2, tl.Len())
	assert.Equal(t, timeline.KindReading, tl.At(0).Kind)
	assert.Equal(t, 31*time.Second, tl.At(0).Reading.RoundTrip())
	assert.Equal(t, timeline.KindGap, tl.At(1).Kind)
}

func TestStaleResponseResetsToIdle(t *testing.T) {
	m, tl := newTestMachine()

	proceed := m.HandleResponse(model.Failed())

	assert.False(t, proceed)
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 1, m.StaleResets())
	assert.Equal(t, 0, tl.Len(), "stale events must not touch the timeline")
}

func TestStaleClockResetsToIdle(t *testing.T) {
	m, tl := newTestMachine()

	m.HandleTrigger(t0)
	proceed := m.HandleClock(t0.Add(time.Second))

	assert.False(t, proceed, "clock read without a response is stale")
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 1, m.StaleResets())
	assert.Equal(t, 0, tl.Len())
}

func TestDuplicateResponseIsDropped(t *testing.T) {
	m, tl := newTestMachine()
	outcome := model.Succeeded("1.2.3.4", 10.0, 20.0)

	m.HandleTrigger(t0)
	m.HandleResponse(outcome)
	m.HandleClock(t0.Add(time.Second))
	require.Equal(t, 1, tl.Len())

	// A duplicate async callback for the finished cycle.
	proceed := m.HandleResponse(outcome)

	assert.False(t, proceed)
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 1, m.StaleResets())
	assert.Equal(t, 1, tl.Len())
}

func TestPauseInsertsMarkerOnce(t *testing.T) {
	m, tl := newTestMachine()

	m.Pause()
	m.Pause()

	assert.True(t, m.Paused())
	require.Equal(t, 1, tl.Len())
	assert.Equal(t, timeline.KindPause, tl.At(0).Kind)
}

func TestResumeFiresOneCycle(t *testing.T) {
	m, _ := newTestMachine()

	assert.False(t, m.Resume(), "resume while active is a no-op")

	m.Pause()
	assert.True(t, m.Resume(), "resume must fire an immediate cycle")
	assert.False(t, m.Paused())
	assert.False(t, m.Resume(), "second resume is a no-op")
}

func TestManualTriggerWorksWhilePaused(t *testing.T) {
	m, tl := newTestMachine()

	m.Pause()
	require.True(t, m.HandleTrigger(t0))
	m.HandleResponse(model.Failed())
	m.HandleClock(t0.Add(time.Second))

	require.Equal(t, 2, tl.Len())
	assert.Equal(t, timeline.KindReading, tl.At(0).Kind)
	assert.Equal(t, timeline.KindPause, tl.At(1).Kind)
}

func TestPauseDoesNotAbortInFlightCycle(t *testing.T) {
	m, tl := newTestMachine()
	outcome := model.Succeeded("1.2.3.4", 10.0, 20.0)

	m.HandleTrigger(t0)
	m.Pause()
	m.HandleResponse(outcome)
	m.HandleClock(t0.Add(time.Second))

	require.Equal(t, 2, tl.Len())
	assert.Equal(t, timeline.KindReading, tl.At(0).Kind)
	assert.Equal(t, timeline.KindPause, tl.At(1).Kind)
}
