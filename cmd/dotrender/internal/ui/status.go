package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/dotrender/pkg/diagram"
)

// KeyMap defines the status view shortcuts
type KeyMap struct {
	Quit  key.Binding
	Reset key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset counters"),
	),
}

// EventMsg delivers a render outcome to the status view
type EventMsg diagram.Event

// ContentMsg reports that the watched file produced new content
type ContentMsg struct {
	Bytes int
}

// SessionsMsg reports the number of connected preview clients
type SessionsMsg int

// Status is the terminal view of a running preview server
type Status struct {
	file string
	url  string
	keys KeyMap

	sessions  int
	rendering bool
	last      *diagram.Event
	applied   int
	failed    int
	stale     int
	contentSz int

	spinner  spinner.Model
	quitting bool
}

// NewStatus creates the status view for file served at url
func NewStatus(file, url string) Status {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle

	return Status{
		file:    file,
		url:     url,
		keys:    DefaultKeyMap,
		spinner: s,
	}
}

// Init starts the spinner
func (m Status) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Status) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.applied, m.failed, m.stale = 0, 0, 0
		}

	case ContentMsg:
		m.contentSz = msg.Bytes
		m.rendering = m.sessions > 0

	case SessionsMsg:
		m.sessions = int(msg)

	case EventMsg:
		ev := diagram.Event(msg)
		switch ev.Kind {
		case diagram.EventApplied:
			m.applied++
		case diagram.EventFailed:
			m.failed++
		case diagram.EventStale:
			m.stale++
			return m, nil
		}
		m.last = &ev
		m.rendering = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the status view
func (m Status) View() string {
	if m.quitting {
		return mutedStyle.Render("stopping preview server") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("dotrender preview"))
	b.WriteString("\n")
	b.WriteString(row("file", fmt.Sprintf("%s (%d bytes)", m.file, m.contentSz)))
	b.WriteString(row("url", m.url))
	b.WriteString(row("clients", fmt.Sprintf("%d", m.sessions)))

	var state string
	switch {
	case m.rendering:
		state = m.spinner.View() + " rendering"
	case m.last == nil:
		state = mutedStyle.Render("waiting for a client")
	case m.last.Kind == diagram.EventApplied:
		state = successStyle.Render("ok") + " " + formatSize(m.last.Size)
	default:
		state = errorStyle.Render("error") + " " + m.last.Err.Error()
	}
	b.WriteString(row("last", state))
	b.WriteString(row("renders", fmt.Sprintf("%d applied, %d failed, %d superseded", m.applied, m.failed, m.stale)))

	help := mutedStyle.Render(fmt.Sprintf("%s %s • %s %s",
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc,
		m.keys.Reset.Help().Key, m.keys.Reset.Help().Desc))

	return boxStyle.Render(b.String()) + "\n" + help + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}
