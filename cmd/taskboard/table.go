package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskboard/internal/todo"
	"taskboard/internal/view"
)

const (
	shortIDLength = 8
	titleMaxWidth = 50
)

// shortID is the ID prefix shown in tables. Any unique prefix is accepted
// back as an argument.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers(headers...)
}

func todoTable(todos []todo.Todo, categories []todo.Category, now time.Time) string {
	t := newTable("ID", "STATUS", "PRIORITY", "DUE", "CATEGORY", "TITLE")
	for _, item := range todos {
		due := "-"
		if item.HasDueDate() {
			due = item.DueDate.String()
			if !item.Completed && view.IsOverdue(item.DueDate, now) {
				due += " (overdue)"
			}
		}
		t.Row(
			shortID(item.ID),
			string(item.Status),
			string(item.Priority),
			due,
			view.CategoryName(categories, item.Category),
			truncate(item.Title, titleMaxWidth),
		)
	}
	return t.Render()
}

func categoryTable(categories []todo.Category) string {
	t := newTable("ID", "NAME", "COLOR")
	for _, c := range categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Color)
		t.Row(shortID(c.ID), c.Name, swatch)
	}
	return t.Render()
}

func writeDetail(w io.Writer, t todo.Todo, categories []todo.Category, now time.Time) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Status:      %s\n", t.Status.Title())
	fmt.Fprintf(w, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(w, "Category:    %s\n", view.CategoryName(categories, t.Category))
	if t.HasDueDate() {
		relative := view.RelativeDue(t.DueDate, now)
		if t.Completed {
			relative = view.FormatDate(t.DueDate, now)
		}
		fmt.Fprintf(w, "Due:         %s (%s)\n", t.DueDate, relative)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if t.AssignedTo != "" {
		fmt.Fprintf(w, "Assigned to: %s\n", t.AssignedTo)
	}
	if t.AssignedBy != "" {
		fmt.Fprintf(w, "Assigned by: %s\n", t.AssignedBy)
	}
	fmt.Fprintf(w, "Created:     %s\n", view.FormatDateTime(t.CreatedAt.In(now.Location())))
	fmt.Fprintf(w, "Updated:     %s\n", view.FormatDateTime(t.UpdatedAt.In(now.Location())))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func truncate(s string, width int) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
