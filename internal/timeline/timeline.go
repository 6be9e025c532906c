// Package timeline maintains the consolidated log of probe results.
//
// The log is an ordered sequence of entries, most recent first. Appending
// a reading collapses runs of identical consecutive readings into a single
// reading plus a run marker, so a stable IP polled for hours renders as
// two lines instead of hundreds. Gap and pause markers record scheduler
// anomalies and user pauses; they break runs permanently.
package timeline

import (
	"time"

	"github.com/user/ipwatch/internal/model"
)

// EntryKind discriminates timeline entry variants.
type EntryKind int

const (
	// KindReading is a single recorded probe result.
	KindReading EntryKind = iota
	// KindRun marks Count additional consecutive readings equal to the
	// reading entry immediately before it (in recency order).
	KindRun
	// KindGap marks a probe cycle that exceeded the polling interval.
	KindGap
	// KindPause marks the point where the user suspended polling.
	KindPause
)

// Entry is one element of the timeline log. Exactly the fields for its
// Kind are meaningful; the rest are zero.
type Entry struct {
	Kind    EntryKind
	Reading model.Reading // KindReading
	Count   int           // KindRun, always >= 1
	Gap     time.Duration // KindGap
}

// ReadingEntry wraps a reading as a timeline entry.
func ReadingEntry(r model.Reading) Entry {
	return Entry{Kind: KindReading, Reading: r}
}

// RunEntry marks count collapsed duplicate readings.
func RunEntry(count int) Entry {
	return Entry{Kind: KindRun, Count: count}
}

// GapEntry marks a detected scheduling gap.
func GapEntry(d time.Duration) Entry {
	return Entry{Kind: KindGap, Gap: d}
}

// PauseEntry marks a user-initiated polling pause.
func PauseEntry() Entry {
	return Entry{Kind: KindPause}
}

// Timeline is the ordered log, index 0 most recent. It has a single
// writer by construction (all mutations happen on the event loop); it is
// not safe for concurrent use.
type Timeline struct {
	entries []Entry
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

// Len returns the number of entries in the log.
func (t *Timeline) Len() int {
	return len(t.entries)
}

// At returns the entry at index i, 0 being the most recent.
func (t *Timeline) At(i int) Entry {
	return t.entries[i]
}

// Entries returns a copy of the log, most recent first. Callers may hold
// the slice across later mutations.
func (t *Timeline) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Append records a completed reading at the head of the log, collapsing
// it into a run when it duplicates the most recent reading.
//
// Consolidation inspects at most the first two entries:
//
//	[equal reading, run(n), ...] -> [new, run(n+1), ...]
//	[equal reading, ...]         -> [new, run(1), ...]
//	anything else                -> [new, ...]
//
// In both compressed cases the displaced duplicate is represented by the
// run counter, so the log always accounts for every reading appended.
// A gap or pause marker at the head always falls into the last case:
// compression never spans non-reading entries, so a marker breaks the run
// permanently even when the readings on both sides of it are equal.
func (t *Timeline) Append(r model.Reading) {
	head := t.entries

	if len(head) > 0 && head[0].Kind == KindReading && head[0].Reading.Equal(r) {
		if len(head) > 1 && head[1].Kind == KindRun {
			// Extend the existing run: the old duplicate head is
			// absorbed into the counter and the fresh reading takes
			// its place.
			rest := head[2:]
			t.entries = append([]Entry{ReadingEntry(r), RunEntry(head[1].Count + 1)}, rest...)
			return
		}
		// Second identical reading in a row starts a run of one.
		rest := head[1:]
		t.entries = append([]Entry{ReadingEntry(r), RunEntry(1)}, rest...)
		return
	}

	t.entries = append([]Entry{ReadingEntry(r)}, head...)
}

// InsertGap records that the scheduler failed to complete a probe cycle
// within the expected interval. A gap already at the head is replaced
// with the newer, larger duration rather than stacked, so a burst of
// repeated lateness shows as one growing marker.
func (t *Timeline) InsertGap(d time.Duration) {
	if len(t.entries) > 0 && t.entries[0].Kind == KindGap {
		t.entries[0] = GapEntry(d)
		return
	}
	t.entries = append([]Entry{GapEntry(d)}, t.entries...)
}

// InsertPause records that the user suspended automatic polling. Pauses
// never merge with prior entries; each one stays individually visible.
func (t *Timeline) InsertPause() {
	t.entries = append([]Entry{PauseEntry()}, t.entries...)
}
