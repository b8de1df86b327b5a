// Package ui renders build progress as a Bubble Tea program for
// `rustic build --ui=fancy`.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Event is one progress update from the driver. A Stage name advances the
// bar; closing the channel finishes the program.
type Event struct {
	Stage string
	Err   bool
}

type eventMsg Event
type doneMsg struct{}

type progressModel struct {
	title   string
	stages  []string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	stage   string
	reached int
	width   int
	done    bool
	failed  bool
}

// NewProgressModel builds the model for one compilation. stages is the
// ordered list of pipeline stage names the driver will report.
func NewProgressModel(title string, stages []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		stages:  stages,
		events:  events,
		spinner: sp,
		prog:    prog,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := truncate(m.title, m.width-16)
	switch {
	case m.failed:
		header = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("failed: ") + header
	case m.done:
		header = "done: " + header
	default:
		if m.stage != "" {
			header = fmt.Sprintf("%s (%s)", header, m.stage)
		}
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	if m.done && !m.failed {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	if ev.Err {
		m.failed = true
		return nil
	}
	m.stage = ev.Stage
	for i, name := range m.stages {
		if name == ev.Stage && i+1 > m.reached {
			m.reached = i + 1
		}
	}
	if len(m.stages) == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.reached) / float64(len(m.stages)))
}

func truncate(s string, width int) string {
	if width < 8 {
		width = 8
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
