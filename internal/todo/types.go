// Package todo owns the persisted task document: todos, categories and
// settings, stored as a single JSON value under one storage key.
//
// Every mutation re-reads the document, applies the change and writes the
// whole document back. There is no partial write and no locking; two
// processes sharing the same storage are last-write-wins.
package todo

// Priority is the urgency of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriorities returns all priorities, most urgent first.
func ValidPriorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a priority, 0 being the most urgent.
// Unknown priorities rank with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Raise returns the next more urgent priority, saturating at urgent.
func (p Priority) Raise() Priority {
	rank := p.Rank()
	if rank == 0 {
		return PriorityUrgent
	}
	return ValidPriorities()[rank-1]
}

// Lower returns the next less urgent priority, saturating at low.
func (p Priority) Lower() Priority {
	rank := p.Rank()
	all := ValidPriorities()
	if rank >= len(all)-1 {
		return PriorityLow
	}
	return all[rank+1]
}

// Status is the board column of a todo.
type Status string

const (
	// StatusPending is a todo that has not been started.
	StatusPending Status = "pending"

	// StatusInProgress is a todo that is being worked on.
	StatusInProgress Status = "inprogress"

	// StatusCompleted is a finished todo. It is the only status with
	// Completed set.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns the statuses in board column order.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Title returns the board column heading for the status.
func (s Status) Title() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// SortKey selects a todo ordering.
type SortKey string

const (
	SortTitle     SortKey = "title"
	SortDueDate   SortKey = "dueDate"
	SortPriority  SortKey = "priority"
	SortCreatedAt SortKey = "createdAt"
	SortOrder     SortKey = "order" // default
)

// ValidSortKeys returns all sort keys.
func ValidSortKeys() []SortKey {
	return []SortKey{SortOrder, SortCreatedAt, SortDueDate, SortPriority, SortTitle}
}

// IsValid returns true if the sort key is a known value.
func (k SortKey) IsValid() bool {
	for _, valid := range ValidSortKeys() {
		if k == valid {
			return true
		}
	}
	return false
}

// Theme is the UI color theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid returns true if the theme is a known value.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

const (
	// DefaultKey is the storage key holding the document.
	DefaultKey = "advanced_todo_app"

	// DefaultCategoryID is assigned to todos created without a category.
	DefaultCategoryID = "personal"

	// MaxTitleLength is the maximum allowed length for a todo title.
	MaxTitleLength = 500
)
