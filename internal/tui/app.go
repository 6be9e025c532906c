// Package tui provides the interactive terminal monitor.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ipmodel "github.com/user/ipwatch/internal/model"
	"github.com/user/ipwatch/internal/probe"
	"github.com/user/ipwatch/internal/timeline"
	"github.com/user/ipwatch/internal/util"
	"github.com/user/ipwatch/internal/watch"
)

// App is the main TUI application.
type App struct {
	config *util.Config
}

// NewApp creates a new TUI application.
func NewApp(cfg *util.Config) *App {
	return &App{config: cfg}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(newModel(a.config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Messages

// tickMsg is a recurring timer fire. seq invalidates ticks armed before
// the last pause or resume.
type tickMsg struct {
	seq int
}

// probeResultMsg carries the outcome of a finished probe request.
type probeResultMsg struct {
	outcome ipmodel.Outcome
}

// clockMsg carries the completion clock read for the in-flight cycle.
type clockMsg struct {
	now time.Time
}

// model is the main bubbletea model. Its Update loop is the single
// writer of the timeline: every event (tick, probe result, clock read,
// key press) is processed to completion before the next one.
type model struct {
	config  *util.Config
	client  *probe.Client
	tl      *timeline.Timeline
	machine *watch.Machine

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	tickSeq int
}

func newModel(cfg *util.Config) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(Primary)

	tl := timeline.New()
	return model{
		config:  cfg,
		client:  probe.NewClient(cfg.Endpoint, cfg.ProbeTimeout),
		tl:      tl,
		machine: watch.NewMachine(tl, cfg.PollInterval),
		spinner: s,
	}
}

// Init fires the first probe cycle immediately and arms the recurring
// timer.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.scheduleTick()}
	if m.machine.HandleTrigger(time.Now()) {
		cmds = append(cmds, m.probeCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "t", "enter":
			// Manual trigger, allowed even while paused.
			if m.machine.HandleTrigger(time.Now()) {
				return m.refresh(), m.probeCmd()
			}
			return m.refresh(), nil

		case "p", " ":
			return m.togglePause()
		}
		// Remaining keys scroll the timeline.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.layout()
		return m.refresh(), nil

	case tickMsg:
		if msg.seq != m.tickSeq || m.machine.Paused() {
			// Armed before the last pause or resume; ignore.
			return m, nil
		}
		cmds := []tea.Cmd{m.scheduleTick()}
		if m.machine.HandleTrigger(time.Now()) {
			cmds = append(cmds, m.probeCmd())
		}
		return m.refresh(), tea.Batch(cmds...)

	case probeResultMsg:
		if m.machine.HandleResponse(msg.outcome) {
			return m, readClock
		}
		return m, nil

	case clockMsg:
		m.machine.HandleClock(msg.now)
		return m.refresh(), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) togglePause() (tea.Model, tea.Cmd) {
	if m.machine.Paused() {
		m.tickSeq++
		cmds := []tea.Cmd{m.scheduleTick()}
		if m.machine.Resume() && m.machine.HandleTrigger(time.Now()) {
			cmds = append(cmds, m.probeCmd())
		}
		return m.refresh(), tea.Batch(cmds...)
	}

	m.machine.Pause()
	m.tickSeq++
	return m.refresh(), nil
}

// scheduleTick arms a single timer fire; each handled tick re-arms it,
// which keeps the interval honest even when cycles run long.
func (m model) scheduleTick() tea.Cmd {
	seq := m.tickSeq
	return tea.Tick(m.machine.Interval(), func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// probeCmd issues the probe request off the event loop. Any failure
// becomes a failed outcome; nothing propagates as an error.
func (m model) probeCmd() tea.Cmd {
	client := m.client
	timeout := m.config.ProbeTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		info, err := client.Lookup(ctx)
		if err != nil {
			util.Warn("Probe failed: %v", err)
			return probeResultMsg{outcome: ipmodel.Failed()}
		}
		return probeResultMsg{outcome: ipmodel.Succeeded(info.IP, info.Latitude, info.Longitude)}
	}
}

// readClock stamps the completion time as its own event, mirroring the
// response/commit suspension point.
func readClock() tea.Msg {
	return clockMsg{now: time.Now()}
}
