// Package watch drives the probe cycle and polling mode for ipwatch.
package watch

import (
	"time"

	"github.com/user/ipwatch/internal/model"
	"github.com/user/ipwatch/internal/timeline"
	"github.com/user/ipwatch/internal/util"
)

// CycleState tracks the lifecycle of the in-flight probe.
type CycleState int

const (
	// Idle means no probe is in flight.
	Idle CycleState = iota
	// AwaitingResponse means the probe request was issued and its
	// response is pending.
	AwaitingResponse
	// AwaitingCommit means the response arrived and the completion
	// clock read is pending.
	AwaitingCommit
)

func (s CycleState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting-response"
	case AwaitingCommit:
		return "awaiting-commit"
	default:
		return "unknown"
	}
}

// Machine is the probe cycle state machine. It owns all timeline
// mutations; callers feed it discrete events (trigger, response, clock
// read) and perform the side effect a handler asks for. The machine is
// driven from a single event loop and is not safe for concurrent use.
//
// Polling mode (active/paused) is an independent axis from the cycle
// state: pausing stops the recurring trigger but an in-flight cycle
// still completes, and a manual trigger works while paused.
type Machine struct {
	timeline *timeline.Timeline
	interval time.Duration

	state       CycleState
	triggeredAt time.Time
	outcome     model.Outcome

	paused bool

	// staleResets counts out-of-order events that forced a defensive
	// reset to Idle. It should stay at zero; a nonzero value points at
	// overlapping cycles or duplicate callbacks worth investigating.
	staleResets int
}

// NewMachine creates an idle machine in active polling mode, appending
// to the given timeline.
func NewMachine(tl *timeline.Timeline, interval time.Duration) *Machine {
	return &Machine{
		timeline: tl,
		interval: interval,
		state:    Idle,
	}
}

// HandleTrigger processes a timer fire or manual trigger at the given
// time. It returns true when a probe request should be issued. When a
// cycle is already in flight the trigger instead records a gap for the
// elapsed time since that cycle started, and the cycle is left alone.
func (m *Machine) HandleTrigger(now time.Time) bool {
	switch m.state {
	case Idle:
		m.state = AwaitingResponse
		m.triggeredAt = now
		return true
	case AwaitingResponse, AwaitingCommit:
		// Single-flight: the running cycle is late, not replaced.
		elapsed := now.Sub(m.triggeredAt)
		m.timeline.InsertGap(elapsed)
		util.Warn("Probe cycle overran interval: %s elapsed in state %s", elapsed, m.state)
		return false
	}
	return false
}

// HandleResponse processes the probe result for the in-flight cycle.
// It returns true when the completion clock should be read next. A
// response arriving in any other state is a stale callback: it is
// dropped and the machine resets to Idle.
func (m *Machine) HandleResponse(outcome model.Outcome) bool {
	if m.state != AwaitingResponse {
		m.resetStale("response")
		return false
	}
	m.state = AwaitingCommit
	m.outcome = outcome
	return true
}

// HandleClock processes the completion clock read, committing the
// reading to the timeline. It returns true when a reading was committed.
// A clock read in any other state is stale and resets the machine.
func (m *Machine) HandleClock(now time.Time) bool {
	if m.state != AwaitingCommit {
		m.resetStale("clock")
		return false
	}
	m.timeline.Append(model.NewReading(m.outcome, m.triggeredAt, now))
	m.state = Idle
	m.outcome = model.Outcome{}
	return true
}

func (m *Machine) resetStale(event string) {
	m.staleResets++
	util.Warn("Dropping stale %s event in state %s (reset #%d)", event, m.state, m.staleResets)
	m.state = Idle
	m.outcome = model.Outcome{}
}

// Pause suspends automatic polling and records a pause marker. Pausing
// while already paused is a no-op.
func (m *Machine) Pause() {
	if m.paused {
		return
	}
	m.paused = true
	m.timeline.InsertPause()
	util.Info("Polling paused")
}

// Resume reactivates automatic polling. It returns true when the caller
// should immediately fire one probe cycle and restart the recurring
// timer; resuming while already active is a no-op.
func (m *Machine) Resume() bool {
	if !m.paused {
		return false
	}
	m.paused = false
	util.Info("Polling resumed")
	return true
}

// Paused reports whether automatic polling is suspended.
func (m *Machine) Paused() bool {
	return m.paused
}

// State returns the current cycle state.
func (m *Machine) State() CycleState {
	return m.state
}

// TriggeredAt returns when the in-flight cycle started. Only meaningful
// outside Idle.
func (m *Machine) TriggeredAt() time.Time {
	return m.triggeredAt
}

// Interval returns the configured polling interval.
func (m *Machine) Interval() time.Duration {
	return m.interval
}

// StaleResets returns how many out-of-order events were dropped.
func (m *Machine) StaleResets() int {
	return m.staleResets
}
