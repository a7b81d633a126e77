package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := "standup"
	if !m.day.IsZero() {
		header += " · " + m.day.Format("Monday 2006-01-02")
	}

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 && m.err == nil {
		body = "No habits yet. Add one with 'standup habit add <title>'."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		docStyle.Render(body),
		footer,
		m.help.View(m),
	)
}
