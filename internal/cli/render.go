package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/standup/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TitleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// newTable builds a table whose columns from numericFrom onwards are right aligned.
func newTable(headers []string, rows [][]string, numericFrom int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// RenderHabits renders the owner's habits with their counters and momentum.
func RenderHabits(habits []models.Habit, momentum map[string]int) string {
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			h.Title,
			strconv.Itoa(h.Streak),
			strconv.Itoa(h.OverallCounter),
			strconv.Itoa(momentum[h.ID]) + "%",
		})
	}
	return newTable([]string{"Habit", "Streak", "Total", "7-day"}, rows, 1)
}

// RenderCompleted renders a completed-on list.
func RenderCompleted(completed []models.CompletedHabit) string {
	rows := make([][]string, 0, len(completed))
	for _, c := range completed {
		rows = append(rows, []string{
			c.Title,
			strconv.Itoa(c.Streak),
			strconv.Itoa(c.OverallCounter),
		})
	}
	return newTable([]string{"Habit", "Streak", "Total"}, rows, 1)
}
