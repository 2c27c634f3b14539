package todo

import (
	"encoding/json"
	"time"
)

// Todo is a single task.
type Todo struct {
	// ID is a UUID assigned at creation. It never changes.
	ID string `json:"id"`

	// Title is the short summary. Callers must not create todos with an
	// empty title.
	Title string `json:"title"`

	// Description provides additional context.
	Description string `json:"description"`

	// Category is the ID of a Category.
	Category string `json:"category"`

	// Priority is the urgency level.
	Priority Priority `json:"priority"`

	// DueDate is the deadline. The zero Date means no deadline.
	DueDate Date `json:"dueDate"`

	// Completed is the source of truth for completion. Status mirrors it.
	Completed bool `json:"completed"`

	// Status is the board column.
	Status Status `json:"status"`

	// Tags are free-text labels in insertion order without duplicates.
	Tags []string `json:"tags"`

	// Order is the manual sort position.
	Order int `json:"order"`

	// AssignedBy names who handed the task out.
	AssignedBy string `json:"assignedBy,omitempty"`

	// AssignedTo names who the task is for.
	AssignedTo string `json:"assignedTo,omitempty"`

	// Subtasks is carried through unchanged from documents that have it.
	// Nothing here reads or edits it.
	Subtasks json.RawMessage `json:"subtasks,omitempty"`

	// CreatedAt is when the todo was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the todo was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasDueDate reports whether the todo has a deadline.
func (t Todo) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// Category is a named, colored grouping for todos.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Settings holds the user's display preferences.
type Settings struct {
	Theme         Theme   `json:"theme"`
	SortBy        SortKey `json:"sortBy"`
	ShowCompleted bool    `json:"showCompleted"`
}

// Document is the persisted value stored under the store key.
type Document struct {
	Todos      []Todo     `json:"todos"`
	Categories []Category `json:"categories"`
	Settings   Settings   `json:"settings"`
}

// DefaultCategories returns the categories seeded into a new document.
func DefaultCategories() []Category {
	return []Category{
		{ID: "personal", Name: "Personal", Color: "#667eea"},
		{ID: "work", Name: "Work", Color: "#f093fb"},
		{ID: "shopping", Name: "Shopping", Color: "#4facfe"},
		{ID: "health", Name: "Health", Color: "#43e97b"},
	}
}

// DefaultSettings returns the settings of a new document.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		SortBy:        SortCreatedAt,
		ShowCompleted: true,
	}
}

// NewDocument returns the document created on first access.
func NewDocument() Document {
	return Document{
		Todos:      []Todo{},
		Categories: DefaultCategories(),
		Settings:   DefaultSettings(),
	}
}
