package view

import (
	"math"
	"time"

	"taskboard/internal/todo"
)

// Stats are aggregate counts over a todo list.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	DueToday       int `json:"dueToday"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats counts todos. Overdue and DueToday exclude completed todos.
// CompletionRate is the rounded completed percentage, 0 for an empty list.
func ComputeStats(todos []todo.Todo, now time.Time) Stats {
	var s Stats
	s.Total = len(todos)
	for _, t := range todos {
		if t.Completed {
			s.Completed++
			continue
		}
		if IsOverdue(t.DueDate, now) {
			s.Overdue++
		}
		if IsDueToday(t.DueDate, now) {
			s.DueToday++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(100 * float64(s.Completed) / float64(s.Total)))
	}
	return s
}

// Column is one board column.
type Column struct {
	Status todo.Status
	Todos  []todo.Todo
}

// Columns groups todos into the board columns in pending, in progress,
// completed order. Each column is sorted by manual order.
func Columns(todos []todo.Todo) []Column {
	statuses := todo.ValidStatuses()
	columns := make([]Column, len(statuses))
	for i, status := range statuses {
		columns[i] = Column{Status: status, Todos: todo.ColumnTodos(todos, status)}
	}
	return columns
}

// DefaultCategoryColor is used for todos whose category is unknown.
const DefaultCategoryColor = "#667eea"

// CategoryColor returns the color of the category with the given ID.
func CategoryColor(categories []todo.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Color
		}
	}
	return DefaultCategoryColor
}

// CategoryName returns the name of the category with the given ID, or the
// ID itself when it is unknown.
func CategoryName(categories []todo.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
