package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskboard/internal/todo"
)

// DefaultLocale is the collation locale used by Sort.
var DefaultLocale = language.English

// Sort returns a sorted copy of todos. The sort is stable. Unknown keys
// sort by manual order.
func Sort(todos []todo.Todo, key todo.SortKey) []todo.Todo {
	return SortLocale(todos, key, DefaultLocale)
}

// SortLocale is Sort with titles collated for locale.
func SortLocale(todos []todo.Todo, key todo.SortKey, locale language.Tag) []todo.Todo {
	sorted := slices.Clone(todos)
	slices.SortStableFunc(sorted, comparator(key, locale))
	return sorted
}

func comparator(key todo.SortKey, locale language.Tag) func(a, b todo.Todo) int {
	switch key {
	case todo.SortTitle:
		c := collate.New(locale)
		return func(a, b todo.Todo) int {
			return c.CompareString(a.Title, b.Title)
		}
	case todo.SortDueDate:
		return compareDueDates
	case todo.SortPriority:
		return func(a, b todo.Todo) int {
			return a.Priority.Rank() - b.Priority.Rank()
		}
	case todo.SortCreatedAt:
		return func(a, b todo.Todo) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	default:
		return func(a, b todo.Todo) int {
			return a.Order - b.Order
		}
	}
}

// compareDueDates orders dated todos ascending, followed by undated ones.
func compareDueDates(a, b todo.Todo) int {
	switch {
	case !a.HasDueDate() && !b.HasDueDate():
		return 0
	case !a.HasDueDate():
		return 1
	case !b.HasDueDate():
		return -1
	default:
		return a.DueDate.Compare(b.DueDate)
	}
}
