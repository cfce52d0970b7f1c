package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/namegate/internal/validate"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case checkDoneMsg:
		m.checking = false
		m.submitted = msg.out
		m.err = nil
		m.input.SetValue("")
		m.live = nil
		return m, m.loadHistory()

	case historyLoadedMsg:
		m.history = msg.logs
		return m, nil

	case errorMsg:
		m.checking = false
		m.err = msg.err
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadHistory(), tickCmd())
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		username := validate.Normalize(m.input.Value())
		if username == "" || m.checking {
			return m, nil
		}
		m.checking = true
		m.err = nil
		return m, m.submitCheck(username)

	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		m.live = nil
		m.submitted = nil
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadHistory()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Recompute the live verdict after every edit.
	if value := validate.Normalize(m.input.Value()); value == "" {
		m.live = nil
	} else {
		result := m.svc.Policy().Check(value)
		m.live = &result
	}

	return m, cmd
}
