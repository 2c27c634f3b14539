// Package view derives what the UI shows from a snapshot of the store:
// filtered subsets, sort orders, statistics and date labels. Every function
// is pure; "now" is always passed in.
package view

import (
	"fmt"
	"time"

	"taskboard/internal/todo"
)

// Today returns the calendar day of now in now's location.
func Today(now time.Time) todo.Date {
	return todo.DateOf(now)
}

// IsOverdue reports whether due is strictly before today. Today is never
// overdue and the zero Date never is either.
func IsOverdue(due todo.Date, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	return due.Before(Today(now))
}

// IsDueToday reports whether due falls on today.
func IsDueToday(due todo.Date, now time.Time) bool {
	return !due.IsZero() && due == Today(now)
}

// DaysUntilDue returns the calendar days from today until due, negative
// when overdue. ok is false for the zero Date.
func DaysUntilDue(due todo.Date, now time.Time) (days int, ok bool) {
	if due.IsZero() {
		return 0, false
	}
	return Today(now).DaysUntil(due), true
}

// RelativeDue describes the distance to due from today, such as "due in 3
// days" or "2 days overdue". The zero Date describes as "".
func RelativeDue(due todo.Date, now time.Time) string {
	days, ok := DaysUntilDue(due, now)
	switch {
	case !ok:
		return ""
	case days == 0:
		return "due today"
	case days == 1:
		return "due in 1 day"
	case days > 1:
		return fmt.Sprintf("due in %d days", days)
	case days == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -days)
	}
}

// FormatDate returns "Today", "Tomorrow" or "Yesterday" for dates next to
// now, and "Jan 02, 2006" otherwise. The zero Date formats as "".
func FormatDate(d todo.Date, now time.Time) string {
	if d.IsZero() {
		return ""
	}
	today := Today(now)
	switch d {
	case today:
		return "Today"
	case today.AddDays(1):
		return "Tomorrow"
	case today.AddDays(-1):
		return "Yesterday"
	}
	return d.In(time.UTC).Format("Jan 02, 2006")
}

// FormatDateTime renders a timestamp as "Jan 02, 2006 15:04" in its own
// location. The zero time formats as "".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02, 2006 15:04")
}
