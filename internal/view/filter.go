package view

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"taskboard/internal/todo"
)

// All means "no constraint" for any Criteria field.
const All = "all"

// Status filter values.
const (
	StatusCompleted  = "completed"
	StatusPending    = "pending"
	StatusOverdue    = "overdue"
	StatusInProgress = "inprogress"
)

// StatusFilters returns the status filter values in cycling order.
func StatusFilters() []string {
	return []string{All, StatusPending, StatusInProgress, StatusCompleted, StatusOverdue}
}

// Criteria narrows a todo list. Empty fields and All impose no constraint.
// All set fields must match.
type Criteria struct {
	// Search is matched case-insensitively against the title, the
	// description and every tag.
	Search string

	// Category is an exact category ID.
	Category string

	// Priority is an exact priority name.
	Priority string

	// Status is one of the Status filter values. Unknown values impose no
	// constraint.
	Status string
}

// Filter returns the todos matching c, in their input order.
func Filter(todos []todo.Todo, c Criteria, now time.Time) []todo.Todo {
	query := strings.ToLower(c.Search)
	result := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if constrained(c.Category) && t.Category != c.Category {
			continue
		}
		if constrained(c.Priority) && string(t.Priority) != c.Priority {
			continue
		}
		if !matchesStatus(t, c.Status, now) {
			continue
		}
		if query != "" && !matchesSearch(t, query) {
			continue
		}
		result = append(result, t)
	}
	return result
}

func constrained(v string) bool {
	return v != "" && v != All
}

func matchesStatus(t todo.Todo, status string, now time.Time) bool {
	switch status {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	case StatusOverdue:
		return t.HasDueDate() && IsOverdue(t.DueDate, now) && !t.Completed
	case StatusInProgress:
		return t.Status == todo.StatusInProgress
	default:
		return true
	}
}

func matchesSearch(t todo.Todo, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Derive is the list pipeline the UI renders: Filter, then hide completed
// todos unless settings.ShowCompleted, then Sort by settings.SortBy.
func Derive(todos []todo.Todo, c Criteria, settings todo.Settings, now time.Time) []todo.Todo {
	return DeriveLocale(todos, c, settings, now, DefaultLocale)
}

// DeriveLocale is Derive with titles collated for locale.
func DeriveLocale(todos []todo.Todo, c Criteria, settings todo.Settings, now time.Time, locale language.Tag) []todo.Todo {
	visible := Filter(todos, c, now)
	if !settings.ShowCompleted {
		kept := visible[:0]
		for _, t := range visible {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		visible = kept
	}
	return SortLocale(visible, settings.SortBy, locale)
}
