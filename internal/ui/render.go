package ui

import (
	"fmt"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/todo"
	"taskboard/internal/view"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Taskboard"))
	b.WriteString("  ")
	b.WriteString(m.styles.muted.Render(m.renderStats()))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(m.renderCriteria()))
	b.WriteString("\n\n")

	switch {
	case m.layout == layoutBoard:
		b.WriteString(m.renderBoard())
	case len(m.todos) == 0:
		b.WriteString(fmt.Sprintf("No todos yet. Press '%s' to add one.", m.cfg.Keys.Add))
	case len(m.visible) == 0:
		b.WriteString("No todos match the current filters.")
	default:
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch m.mode {
	case modeMetadata:
		b.WriteString("Details editor (tab/shift+tab to move, enter to save/next, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderMetaBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.meta.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeAdd, modeRename, modeSearch:
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDetailPanel())
	}

	b.WriteString("\n\n")
	if m.statusErr {
		b.WriteString(m.styles.statusErr.Render(m.status))
	} else {
		b.WriteString(m.styles.statusOK.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys, m.layout))

	return b.String()
}

func (m Model) renderStats() string {
	s := view.ComputeStats(m.todos, m.now())
	return fmt.Sprintf("%d total • %d done • %d pending • %d overdue • %d due today • %d%% complete",
		s.Total, s.Completed, s.Pending, s.Overdue, s.DueToday, s.CompletionRate)
}

func (m Model) renderCriteria() string {
	status := orAll(m.criteria.Status)
	category := orAll(m.criteria.Category)
	if category != view.All {
		category = view.CategoryName(m.categories, category)
	}
	completed := "shown"
	if !m.settings.ShowCompleted {
		completed = "hidden"
	}
	line := fmt.Sprintf("status:%s category:%s priority:%s sort:%s completed:%s",
		status, category, orAll(m.criteria.Priority), m.settings.SortBy, completed)
	if m.criteria.Search != "" {
		line += fmt.Sprintf(" search:%q", m.criteria.Search)
	}
	return line
}

func (m Model) renderTaskList() string {
	now := m.now()
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		switch {
		case t.Completed:
			checkbox = "[x]"
		case t.Status == todo.StatusInProgress:
			checkbox = "[~]"
		}

		title := t.Title
		switch {
		case t.Completed:
			title = m.styles.done.Render(title)
		case m.cursor == i:
			title = m.styles.selected.Render(title)
		}

		body := fmt.Sprintf("%s %s %s %s %s", cursor, checkbox, priorityBadge(t.Priority), title,
			categoryBadge(view.CategoryColor(m.categories, t.Category), view.CategoryName(m.categories, t.Category)))
		if t.HasDueDate() {
			due := view.FormatDate(t.DueDate, now)
			if !t.Completed && view.IsOverdue(t.DueDate, now) {
				body += " " + m.styles.overdue.Render("due "+due)
			} else {
				body += " " + m.styles.muted.Render("due "+due)
			}
		}
		if len(t.Tags) > 0 {
			body += " " + m.styles.muted.Render(strings.Join(t.Tags, " "))
		}

		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	t, ok := m.selected()
	if !ok {
		return "No todo selected"
	}
	now := m.now()
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title      : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Status     : %s\n", t.Status.Title()))
	b.WriteString(fmt.Sprintf("Category   : %s\n", view.CategoryName(m.categories, t.Category)))
	b.WriteString(fmt.Sprintf("Priority   : %s\n", t.Priority))
	due := view.FormatDate(t.DueDate, now)
	if t.HasDueDate() && !t.Completed {
		due += ", " + view.RelativeDue(t.DueDate, now)
	}
	b.WriteString(fmt.Sprintf("Due        : %s\n", emptyPlaceholder(due)))
	b.WriteString(fmt.Sprintf("Tags       : %s\n", emptyPlaceholder(strings.Join(t.Tags, ", "))))
	b.WriteString(fmt.Sprintf("Description: %s\n", emptyPlaceholder(t.Description)))
	if t.AssignedTo != "" || t.AssignedBy != "" {
		b.WriteString(fmt.Sprintf("Assigned   : %s (by %s)\n", emptyPlaceholder(t.AssignedTo), emptyPlaceholder(t.AssignedBy)))
	}
	b.WriteString(fmt.Sprintf("Updated    : %s\n", view.FormatDateTime(t.UpdatedAt.In(now.Location()))))
	return b.String()
}

func renderHelp(k config.Keymap, l layout) string {
	common := fmt.Sprintf("%s add • %s toggle • %s edit • %s rename • %s delete • %s search • %s/%s/%s filter • s… sort • %s view • %s export • %s quit",
		k.Add, keyLabel(k.Toggle), k.Edit, k.Rename, k.Delete, k.Search, k.FilterCycle, k.CategoryCycle, k.PriorityCycle, k.ToggleView, k.Export, k.Quit)
	if l == layoutBoard {
		return fmt.Sprintf("%s/%s/%s/%s move • %s/%s move card • %s/%s reorder • ", k.Left, k.Down, k.Up, k.Right, k.MoveLeft, k.MoveRight, k.ReorderUp, k.ReorderDown) + common
	}
	return fmt.Sprintf("%s/%s move • %s/%s reorder • ", k.Up, k.Down, k.ReorderUp, k.ReorderDown) + common
}

func sortHelp(k config.Keymap) string {
	return fmt.Sprintf("%s due • %s priority • %s created • %s title • %s manual",
		k.SortDue, k.SortPriority, k.SortCreated, k.SortTitle, k.SortOrder)
}

func keyLabel(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func orAll(v string) string {
	if v == "" {
		return view.All
	}
	return v
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
