package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTitle is returned when a todo title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a todo title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidPriority is returned for a priority outside low|medium|high|urgent.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned for a status outside pending|inprogress|completed.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidSortKey is returned for an unknown sort key.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidTheme is returned for an unknown theme.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrNotFound is returned when no todo has the given ID.
	ErrNotFound = errors.New("todo not found")

	// ErrAmbiguousID is returned when an ID prefix matches several todos.
	ErrAmbiguousID = errors.New("ambiguous todo ID prefix")

	// ErrReorderMismatch is returned when a reorder list is not a
	// permutation of the stored todos.
	ErrReorderMismatch = errors.New("reorder list does not match stored todos")

	// ErrStaleDrop is returned by Move when the drop's source column does
	// not hold the card, as happens after another process moved it.
	ErrStaleDrop = errors.New("card is no longer in the source column")

	// ErrPersistence wraps every failure to read or write the document.
	// A mutation that returns it did not take effect.
	ErrPersistence = errors.New("persistence failure")
)

// ValidateTitle checks a title before it is handed to Add or Update.
// The store itself does not validate titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ParsePriority normalizes and validates a priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseStatus normalizes and validates a status name. "in_progress" and
// "in-progress" are accepted for inprogress, "done" for completed.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "in_progress", "in-progress", "doing":
		normalized = string(StatusInProgress)
	case "done":
		normalized = string(StatusCompleted)
	}
	status := Status(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.TrimSpace(s))
	if !key.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
	return key, nil
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	theme := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !theme.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
	return theme, nil
}
