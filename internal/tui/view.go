package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := styleHeader.Width(m.width).Render("  Namegate Username Checker")
	b.WriteString(header)
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleInvalid.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(styleInputBox.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n\n")

	b.WriteString(m.renderVerdict())
	b.WriteString("\n")

	b.WriteString(m.renderHistory())
	b.WriteString("\n")

	help := styleHelp.Render("  [enter] Check  [esc] Clear  [ctrl+r] Refresh  [ctrl+c] Quit")
	b.WriteString(help)

	return b.String()
}

func (m Model) renderVerdict() string {
	var b strings.Builder

	switch {
	case m.checking:
		b.WriteString(styleMuted().Render("  Checking..."))
		b.WriteString("\n")

	case m.live != nil:
		// Live feedback while typing; nothing is persisted yet.
		if m.live.Valid {
			b.WriteString(fmt.Sprintf("  %s %s", VerdictIcon(true), styleValid.Render("looks valid")))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s", VerdictIcon(false), styleInvalid.Render("invalid so far")))
		}
		b.WriteString("\n")
		for _, v := range m.live.Violations {
			b.WriteString(styleMuted().Render(fmt.Sprintf("    • %s", v.Reason)))
			b.WriteString("\n")
		}

	case m.submitted != nil:
		b.WriteString(fmt.Sprintf("  %s %s", VerdictIcon(m.submitted.Valid), m.submitted.Message))
		b.WriteString("\n")
		for _, v := range m.submitted.Violations {
			b.WriteString(styleMuted().Render(fmt.Sprintf("    • %s", v.Reason)))
			b.WriteString("\n")
		}

	default:
		policy := m.svc.Policy()
		hint := fmt.Sprintf("  %d-%d letters and digits", policy.MinLength, policy.MaxLength)
		if policy.RequireDigit {
			hint += ", at least one digit"
		}
		b.WriteString(styleMuted().Render(hint))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderHistory() string {
	var b strings.Builder

	b.WriteString(styleHistoryHeader.Render("  Recent checks"))
	b.WriteString("\n")

	if len(m.history) == 0 {
		b.WriteString(styleMuted().Render("  none yet"))
		b.WriteString("\n")
		return styleHistoryBox.Width(m.width - 4).Render(b.String())
	}

	visibleRows := m.height - 16
	if visibleRows < 3 {
		visibleRows = 3
	}
	if visibleRows > len(m.history) {
		visibleRows = len(m.history)
	}

	for _, entry := range m.history[:visibleRows] {
		when := time.Unix(entry.CreatedAt, 0).Format("15:04:05")
		line := fmt.Sprintf("  %s %s  %-16s", VerdictIcon(entry.Valid), styleMuted().Render(when), truncate(entry.Username, 16))
		if !entry.Valid && entry.Reasons != "" {
			line += styleMuted().Render(entry.Reasons)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return styleHistoryBox.Width(m.width - 4).Render(b.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
