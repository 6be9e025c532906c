// Package model defines core data structures for ipwatch.
package model

import "time"

// Outcome represents the result of a single public IP probe.
// A failed probe carries no address or coordinates; any two failed
// outcomes are considered equal.
type Outcome struct {
	OK        bool    `json:"ok"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Failed returns an outcome for a probe that did not yield a usable result.
func Failed() Outcome {
	return Outcome{}
}

// Succeeded returns an outcome for a resolved IP and coordinate pair.
func Succeeded(address string, lat, lon float64) Outcome {
	return Outcome{
		OK:        true,
		Address:   address,
		Latitude:  lat,
		Longitude: lon,
	}
}

// Equal reports whether two outcomes are the same for compression
// purposes. Failures compare equal to each other; successes compare by
// address and coordinates.
func (o Outcome) Equal(other Outcome) bool {
	if o.OK != other.OK {
		return false
	}
	if !o.OK {
		return true
	}
	return o.Address == other.Address &&
		o.Latitude == other.Latitude &&
		o.Longitude == other.Longitude
}

// Reading is an immutable record of one completed probe cycle.
// CompletedAt is stamped after the response (and the clock read itself)
// is in hand, so CompletedAt >= TriggeredAt always holds.
type Reading struct {
	Outcome     Outcome   `json:"outcome"`
	TriggeredAt time.Time `json:"triggered_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewReading constructs a reading from a probe outcome and its timing.
func NewReading(outcome Outcome, triggeredAt, completedAt time.Time) Reading {
	return Reading{
		Outcome:     outcome,
		TriggeredAt: triggeredAt,
		CompletedAt: completedAt,
	}
}

// RoundTrip returns the elapsed time between trigger and completion.
func (r Reading) RoundTrip() time.Duration {
	return r.CompletedAt.Sub(r.TriggeredAt)
}

// Equal compares two readings by outcome only. Timing is deliberately
// excluded: a reading with the same IP and coordinates but different
// timestamps still collapses into a run.
func (r Reading) Equal(other Reading) bool {
	return r.Outcome.Equal(other.Outcome)
}
