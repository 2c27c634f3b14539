package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/todo"
	"taskboard/internal/view"
)

const (
	fieldDescription = iota
	fieldCategory
	fieldPriority
	fieldDue
	fieldTags
	fieldStatus
	fieldAssignedTo
	fieldAssignedBy
)

type metaState struct {
	todoID string
	values []string
	index  int
}

func metaFields() []string {
	return []string{
		"description",
		"category",
		"priority (low/medium/high/urgent)",
		"due date (YYYY-MM-DD)",
		"tags (comma separated)",
		"status (pending/inprogress/completed)",
		"assigned to",
		"assigned by",
	}
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms metaState) currentValue() string {
	return ms.values[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	ms.values[ms.index] = v
}

func (m Model) startMetadataEdit(t todo.Todo) (tea.Model, tea.Cmd) {
	values := make([]string, len(metaFields()))
	values[fieldDescription] = t.Description
	values[fieldCategory] = view.CategoryName(m.categories, t.Category)
	values[fieldPriority] = string(t.Priority)
	values[fieldDue] = t.DueDate.String()
	values[fieldTags] = strings.Join(t.Tags, ", ")
	values[fieldStatus] = string(t.Status)
	values[fieldAssignedTo] = t.AssignedTo
	values[fieldAssignedBy] = t.AssignedBy

	m.meta = &metaState{todoID: t.ID, values: values}
	m.input.SetValue(m.meta.currentValue())
	m.input.CursorEnd()
	m.input.Placeholder = m.meta.currentLabel()
	m.input.Focus()
	m.mode = modeMetadata
	m.setStatus("Edit details: tab to move, enter to save/next, esc to cancel")
	return m, nil
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.setStatus("Edit cancelled")
		return m, nil
	case "tab", "down":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index+1, len(metaFields()))
		m.input.SetValue(m.meta.currentValue())
		m.input.CursorEnd()
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	case "shift+tab", "up":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index-1, len(metaFields()))
		m.input.SetValue(m.meta.currentValue())
		m.input.CursorEnd()
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= len(metaFields())-1 {
			return m.saveMetadata()
		}
		m.meta.index++
		m.input.SetValue(m.meta.currentValue())
		m.input.CursorEnd()
		m.input.Placeholder = m.meta.currentLabel()
		m.setStatus(m.metaPrompt())
		return m, nil
	case "ctrl+s":
		m.meta.setCurrentValue(m.input.Value())
		return m.saveMetadata()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	patch, err := m.metaPatch()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	id := m.meta.todoID
	if _, err := m.store.Update(id, patch); err != nil {
		m.setError(fmt.Errorf("save failed: %w", err))
		return m, nil
	}
	m.meta = nil
	m.mode = modeList
	m.input.Blur()
	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return m, nil
	}
	m.selectID(id)
	m.setStatus("Details saved")
	return m, nil
}

func (m Model) metaPatch() (todo.Patch, error) {
	v := m.meta.values
	description := strings.TrimSpace(v[fieldDescription])
	category, err := m.resolveCategory(v[fieldCategory])
	if err != nil {
		return todo.Patch{}, err
	}
	priority := todo.PriorityMedium
	if s := strings.TrimSpace(v[fieldPriority]); s != "" {
		if priority, err = todo.ParsePriority(s); err != nil {
			return todo.Patch{}, fmt.Errorf("priority invalid: %w", err)
		}
	}
	due, err := todo.ParseDate(strings.TrimSpace(v[fieldDue]))
	if err != nil {
		return todo.Patch{}, fmt.Errorf("due date invalid: %w", err)
	}
	tags := todo.ParseTags(v[fieldTags])
	assignedTo := strings.TrimSpace(v[fieldAssignedTo])
	assignedBy := strings.TrimSpace(v[fieldAssignedBy])

	patch := todo.Patch{
		Description: &description,
		Category:    &category,
		Priority:    &priority,
		DueDate:     &due,
		Tags:        &tags,
		AssignedTo:  &assignedTo,
		AssignedBy:  &assignedBy,
	}
	if s := strings.TrimSpace(v[fieldStatus]); s != "" {
		status, err := todo.ParseStatus(s)
		if err != nil {
			return todo.Patch{}, fmt.Errorf("status invalid: %w", err)
		}
		patch.Status = &status
	}
	return patch, nil
}

// resolveCategory accepts a category ID or name, case-insensitively. Empty
// means the default category.
func (m Model) resolveCategory(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return todo.DefaultCategoryID, nil
	}
	for _, c := range m.categories {
		if strings.EqualFold(c.ID, v) || strings.EqualFold(c.Name, v) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", v)
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, ctrl+s to save.",
		m.meta.currentLabel(), m.meta.index+1, len(metaFields()))
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		val := m.meta.values[i]
		if i == m.meta.index {
			prefix = ">"
			val = m.input.Value()
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, emptyPlaceholder(val)))
	}
	return b.String()
}
