package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/todo"
	"taskboard/internal/view"
)

// The board always shows every todo; list filters do not apply, so the
// row of a card is its index within todo.ColumnTodos.
func (m Model) boardColumns() []view.Column {
	return view.Columns(m.todos)
}

func (m Model) columnStatus() todo.Status {
	return todo.ValidStatuses()[clampCursor(m.column, len(todo.ValidStatuses()))]
}

func (m *Model) clampBoard() {
	columns := m.boardColumns()
	m.column = clampCursor(m.column, len(columns))
	m.row = clampCursor(m.row, len(columns[m.column].Todos))
}

func (m Model) updateBoardMode(key string) (tea.Model, tea.Cmd, bool) {
	k := m.cfg.Keys
	columns := m.boardColumns()
	switch key {
	case k.Left, "left":
		m.column = clampCursor(m.column-1, len(columns))
		m.row = clampCursor(m.row, len(columns[m.column].Todos))
	case k.Right, "right":
		m.column = clampCursor(m.column+1, len(columns))
		m.row = clampCursor(m.row, len(columns[m.column].Todos))
	case k.Down, "down":
		m.row = clampCursor(m.row+1, len(columns[m.column].Todos))
	case k.Up, "up":
		m.row = clampCursor(m.row-1, len(columns[m.column].Todos))
	case k.MoveLeft, k.MoveRight:
		to := m.column - 1
		if key == k.MoveRight {
			to = m.column + 1
		}
		if to < 0 || to >= len(columns) {
			return m, nil, true
		}
		next, cmd := m.drop(columns, to, len(columns[to].Todos))
		return next, cmd, true
	case k.ReorderUp, k.ReorderDown:
		to := m.row - 1
		if key == k.ReorderDown {
			to = m.row + 1
		}
		if to < 0 || to >= len(columns[m.column].Todos) {
			return m, nil, true
		}
		next, cmd := m.drop(columns, m.column, to)
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// drop moves the selected card to column to at index toIndex, the way a
// drag and drop on the board would.
func (m Model) drop(columns []view.Column, to, toIndex int) (tea.Model, tea.Cmd) {
	from := columns[m.column]
	if len(from.Todos) == 0 {
		return m, nil
	}
	card := from.Todos[clampCursor(m.row, len(from.Todos))]
	ev := todo.DropEvent{
		TodoID:    card.ID,
		From:      from.Status,
		FromIndex: m.row,
		To:        columns[to].Status,
		ToIndex:   toIndex,
	}
	moved, err := m.store.Move(ev)
	if errors.Is(err, todo.ErrStaleDrop) {
		if reloadErr := m.reload(); reloadErr != nil {
			m.setError(fmt.Errorf("reload failed: %w", reloadErr))
			return m, nil
		}
		m.setError(fmt.Errorf("move failed: %w; board reloaded", err))
		return m, nil
	}
	if err != nil {
		m.setError(fmt.Errorf("move failed: %w", err))
		return m, nil
	}
	m.logger.Debug("moved card", "id", moved.ID, "from", ev.From, "to", ev.To, "index", ev.ToIndex)
	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return m, nil
	}
	m.selectID(moved.ID)
	m.setStatus("Moved to " + moved.Status.Title())
	return m, nil
}

func (m Model) renderBoard() string {
	columns := m.boardColumns()
	rendered := make([]string, len(columns))
	for i, column := range columns {
		var b strings.Builder
		header := lipgloss.NewStyle().Bold(true).Foreground(columnColors[column.Status]).
			Render(fmt.Sprintf("%s (%d)", column.Status.Title(), len(column.Todos)))
		b.WriteString(header)
		b.WriteString("\n")
		if len(column.Todos) == 0 {
			b.WriteString(m.styles.muted.Render("empty"))
		}
		for r, t := range column.Todos {
			b.WriteString(m.renderCard(t, i == m.column && r == m.row))
			b.WriteString("\n")
		}
		style := m.styles.column
		if i == m.column {
			style = m.styles.columnSel
		}
		rendered[i] = style.Render(strings.TrimRight(b.String(), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderCard(t todo.Todo, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	title := t.Title
	switch {
	case t.Completed:
		title = m.styles.done.Render(title)
	case selected:
		title = m.styles.selected.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", cursor, priorityBadge(t.Priority), title)
	if t.HasDueDate() {
		due := view.FormatDate(t.DueDate, m.now())
		if !t.Completed && view.IsOverdue(t.DueDate, m.now()) {
			due = m.styles.overdue.Render(due)
		} else {
			due = m.styles.muted.Render(due)
		}
		line += "\n    " + due
	}
	return line
}
