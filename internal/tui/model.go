package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/namegate/internal/repository"
	"github.com/creamcroissant/namegate/internal/service"
	"github.com/creamcroissant/namegate/internal/validate"
)

const historyLimit = 10

// Model is the main TUI model: a single-screen interactive checker with a
// live verdict for the text being typed and a pane of recent checks.
type Model struct {
	// Input
	input textinput.Model

	// Live verdict for the current input, recomputed on every keystroke.
	// Nil while the input is empty.
	live *validate.Result

	// Last submitted verdict
	submitted *service.CheckOutput

	// Recent checks from the audit trail
	history []*repository.CheckLog

	// Wiring
	svc  service.CheckService
	logs repository.CheckLogRepository

	// Terminal size
	width  int
	height int

	// State
	checking bool
	err      error

	keys keyMap
}

type keyMap struct {
	Submit  key.Binding
	Clear   key.Binding
	Quit    key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "check"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}

// NewModel creates a new TUI model. logs may be nil, in which case the
// history pane stays empty.
func NewModel(svc service.CheckService, logs repository.CheckLogRepository) Model {
	input := textinput.New()
	input.Placeholder = "type a username"
	input.CharLimit = 64
	input.Focus()

	return Model{
		input: input,
		svc:   svc,
		logs:  logs,
		keys:  defaultKeyMap(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadHistory(),
		tickCmd(),
	)
}

// Messages

type checkDoneMsg struct {
	out *service.CheckOutput
}

type historyLoadedMsg struct {
	logs []*repository.CheckLog
}

type errorMsg struct {
	err error
}

type tickMsg time.Time

// Commands

func (m Model) submitCheck(username string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.svc.Check(context.Background(), service.CheckInput{
			Username: username,
			Source:   "tui",
		})
		if err != nil {
			return errorMsg{err: err}
		}
		return checkDoneMsg{out: out}
	}
}

func (m Model) loadHistory() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := m.logs.List(context.Background(), repository.CheckLogFilter{
			Limit: historyLimit,
		})
		if err != nil {
			return errorMsg{err: err}
		}
		return historyLoadedMsg{logs: entries}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
