package tui

import (
	"fmt"
	"strings"

	"github.com/user/ipwatch/internal/render"
	"github.com/user/ipwatch/internal/watch"
)

const chromeHeight = 6 // header, status, help and their padding

// layout sizes the viewport to the window, keeping the header and help
// lines visible.
func (m model) layout() model {
	height := m.height - chromeHeight
	if height < 3 {
		height = 3
	}
	width := m.width
	if width < 40 {
		width = 40
	}

	if !m.ready {
		m.viewport = newTimelineViewport(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	return m
}

// refresh rebuilds the viewport content from the current timeline.
func (m model) refresh() model {
	if !m.ready {
		return m
	}
	m.viewport.SetContent(m.timelineContent())
	return m
}

// View renders the UI.
func (m model) View() string {
	if !m.ready {
		return LoadingStyle.Render(m.spinner.View() + " Starting...")
	}

	var sb strings.Builder

	sb.WriteString(HeaderStyle.Width(m.width).Render("ipwatch"))
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(HelpStyle.Render("t: probe now • p: pause/resume • ↑/↓: scroll • q: quit"))

	return sb.String()
}

func (m model) statusLine() string {
	var parts []string

	if m.machine.Paused() {
		parts = append(parts, WarningStyle.Render("⏸ paused"))
	} else {
		parts = append(parts, SuccessStyle.Render(fmt.Sprintf("▶ polling every %s", m.machine.Interval())))
	}

	if m.machine.State() != watch.Idle {
		parts = append(parts, m.spinner.View()+DimStyle.Render("probe in flight"))
	}

	if n := m.machine.StaleResets(); n > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d stale events dropped", n)))
	}

	return "  " + strings.Join(parts, "   ")
}

// timelineContent renders the consolidated log, most recent first.
func (m model) timelineContent() string {
	rows := render.Rows(m.tl.Entries())
	if len(rows) == 0 {
		return DimStyle.Render("  no readings yet")
	}

	var lines []string
	for _, row := range rows {
		lines = append(lines, renderRow(row))
	}
	return strings.Join(lines, "\n")
}

func renderRow(row render.Row) string {
	switch row.Kind {
	case render.RowSuccess:
		return fmt.Sprintf("  %s  %s  %s",
			TimeStyle.Render(row.Time),
			LatencyStyle.Render(fmt.Sprintf("%8s", row.Latency)),
			ValueStyle.Render(row.Text))
	case render.RowFailure:
		return fmt.Sprintf("  %s  %s  %s",
			TimeStyle.Render(row.Time),
			LatencyStyle.Render(fmt.Sprintf("%8s", row.Latency)),
			ErrorStyle.Render(row.Text))
	case render.RowRun:
		return "            " + DimStyle.Render("↻ "+row.Text)
	case render.RowGap:
		return "            " + WarningStyle.Render("⚠ "+row.Text)
	case render.RowPause:
		return DividerStyle.Render("  ── " + row.Text + " ──")
	}
	return "  " + row.Text
}
