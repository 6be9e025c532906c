// Package render maps timeline entries to display rows.
package render

import (
	"fmt"

	"github.com/user/ipwatch/internal/timeline"
)

// RowKind classifies a display row for styling purposes.
type RowKind int

const (
	// RowSuccess is a reading with a resolved IP.
	RowSuccess RowKind = iota
	// RowFailure is a reading whose probe failed.
	RowFailure
	// RowRun summarizes collapsed duplicate readings.
	RowRun
	// RowGap summarizes a scheduling gap.
	RowGap
	// RowPause is a divider marking a polling pause.
	RowPause
)

// Row is one renderable line of the timeline.
type Row struct {
	Kind    RowKind
	Time    string // formatted trigger time, readings only
	Latency string // round-trip duration, readings only
	Text    string
}

const timeFormat = "15:04:05"

// Rows converts timeline entries to display rows, most recent first.
// The mapping is total and side-effect-free.
func Rows(entries []timeline.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rowFor(e))
	}
	return rows
}

func rowFor(e timeline.Entry) Row {
	switch e.Kind {
	case timeline.KindReading:
		r := e.Reading
		row := Row{
			Time:    r.TriggeredAt.Format(timeFormat),
			Latency: fmt.Sprintf("%dms", r.RoundTrip().Milliseconds()),
		}
		if r.Outcome.OK {
			row.Kind = RowSuccess
			row.Text = fmt.Sprintf("%s (%.4f, %.4f)",
				r.Outcome.Address, r.Outcome.Latitude, r.Outcome.Longitude)
		} else {
			row.Kind = RowFailure
			row.Text = "Error"
		}
		return row

	case timeline.KindRun:
		return Row{
			Kind: RowRun,
			Text: fmt.Sprintf("repeated %d times", e.Count),
		}

	case timeline.KindGap:
		return Row{
			Kind: RowGap,
			Text: fmt.Sprintf("gap of %dms", e.Gap.Milliseconds()),
		}

	case timeline.KindPause:
		return Row{
			Kind: RowPause,
			Text: "paused",
		}
	}

	// Unreachable for well-formed entries.
	return Row{Kind: RowFailure, Text: "unknown entry"}
}
