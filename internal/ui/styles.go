package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/todo"
)

var priorityColors = map[todo.Priority]lipgloss.Color{
	todo.PriorityLow:    lipgloss.Color("#28a745"),
	todo.PriorityMedium: lipgloss.Color("#ffc107"),
	todo.PriorityHigh:   lipgloss.Color("#fd7e14"),
	todo.PriorityUrgent: lipgloss.Color("#dc3545"),
}

var columnColors = map[todo.Status]lipgloss.Color{
	todo.StatusPending:    lipgloss.Color("#ffc107"),
	todo.StatusInProgress: lipgloss.Color("#17a2b8"),
	todo.StatusCompleted:  lipgloss.Color("#28a745"),
}

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	selected  lipgloss.Style
	done      lipgloss.Style
	overdue   lipgloss.Style
	statusErr lipgloss.Style
	statusOK  lipgloss.Style
	column    lipgloss.Style
	columnSel lipgloss.Style
}

func newStyles(theme todo.Theme) styles {
	fg, muted, accent := lipgloss.Color("235"), lipgloss.Color("244"), lipgloss.Color("#667eea")
	if theme == todo.ThemeDark {
		fg, muted = lipgloss.Color("252"), lipgloss.Color("242")
	}
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1).
		Width(30)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		muted:     lipgloss.NewStyle().Foreground(muted),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(fg),
		done:      lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		overdue:   lipgloss.NewStyle().Foreground(priorityColors[todo.PriorityUrgent]),
		statusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		statusOK:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		column:    column,
		columnSel: column.BorderForeground(accent),
	}
}

func priorityBadge(p todo.Priority) string {
	color, ok := priorityColors[p]
	if !ok {
		color = priorityColors[todo.PriorityMedium]
	}
	return lipgloss.NewStyle().Foreground(color).Render("●")
}

func categoryBadge(color, name string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("#" + name)
}
