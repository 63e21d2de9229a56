// Package display renders the live speaker dashboard. The daemon
// pushes monitor updates into the program with Send; the model itself
// never talks to the network.
package display

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/scrobbled/internal/monitor"
)

// StatusMsg carries the per-speaker statuses of one monitor tick.
type StatusMsg []monitor.SpeakerStatus

// ScrobbledMsg announces a successful submission.
type ScrobbledMsg struct {
	Artist  string
	Title   string
	Speaker string
	At      time.Time
}

// ErrorMsg carries a pre-formatted error line for the footer.
type ErrorMsg string

// Model is the bubbletea model for the dashboard.
type Model struct {
	width  int
	height int

	startedAt time.Time
	statuses  []monitor.SpeakerStatus
	scrobbles int
	last      *ScrobbledMsg
	lastError string

	spinner  spinner.Model
	progress progress.Model
}

// New creates the dashboard model.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = T().S().Muted

	return Model{
		startedAt: time.Now(),
		spinner:   sp,
		progress: progress.New(
			progress.WithScaledGradient(string(T().Primary), string(T().Secondary)),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case StatusMsg:
		hadSpeakers := len(m.statuses) > 0
		m.statuses = msg
		if hadSpeakers && len(msg) == 0 {
			// Speakers vanished, restart the search spinner.
			return m, m.spinner.Tick
		}
		return m, nil

	case ScrobbledMsg:
		m.scrobbles++
		m.last = &msg
		m.lastError = ""
		return m, nil

	case ErrorMsg:
		m.lastError = string(msg)
		return m, nil

	case spinner.TickMsg:
		if len(m.statuses) > 0 {
			// Spinner is hidden while speakers are shown; the tick
			// chain resumes when the list empties.
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
