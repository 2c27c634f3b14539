package todo

import (
	"fmt"
	"slices"
)

// DropEvent is the result of dragging a card on the board: the card left
// column From at FromIndex and landed in column To at ToIndex. Indexes are
// positions within the column as displayed, ordered by Order.
type DropEvent struct {
	TodoID    string
	From      Status
	FromIndex int
	To        Status
	ToIndex   int
}

// ColumnTodos returns the todos in the board column for status, ordered by
// Order. Ties keep insertion order.
func ColumnTodos(todos []Todo, status Status) []Todo {
	var column []Todo
	for _, t := range todos {
		if t.Status == status {
			column = append(column, t)
		}
	}
	slices.SortStableFunc(column, func(a, b Todo) int {
		return compareInts(a.Order, b.Order)
	})
	return column
}

// Move applies a drop. Dropping into another column changes the status.
// Dropping within the same column at a different index moves the card
// among that column's slots in the manual order; cards in other columns keep
// their positions. A drop onto the starting position changes nothing and
// returns the todo as stored. A drop whose From column no longer holds the
// card returns ErrStaleDrop without writing.
func (s *Store) Move(ev DropEvent) (Todo, error) {
	if !ev.To.IsValid() {
		return Todo{}, fmt.Errorf("%w: %q", ErrInvalidStatus, ev.To)
	}
	if ev.From != ev.To {
		return s.SetStatus(ev.TodoID, ev.To)
	}

	todos, err := s.GetAll()
	if err != nil {
		return Todo{}, err
	}
	current := indexByID(todos, ev.TodoID)
	if current < 0 {
		return Todo{}, fmt.Errorf("%w: %s", ErrNotFound, ev.TodoID)
	}
	if todos[current].Status != ev.From {
		return Todo{}, fmt.Errorf("%w: %s is in %s, not %s", ErrStaleDrop, ev.TodoID, todos[current].Status, ev.From)
	}
	if ev.FromIndex == ev.ToIndex {
		return todos[current], nil
	}

	ordered, ok := reorderWithinColumn(todos, ev.TodoID, ev.To, ev.ToIndex)
	if !ok {
		return Todo{}, fmt.Errorf("%w: %s is not in %s", ErrStaleDrop, ev.TodoID, ev.To)
	}
	reordered, err := s.Reorder(ordered)
	if err != nil {
		return Todo{}, err
	}
	return reordered[indexByID(reordered, ev.TodoID)], nil
}

// reorderWithinColumn returns all todos in manual order with id moved to
// position toIndex inside its column. The slots occupied by the column in
// the manual order are refilled with the column's new sequence. ok is false
// when id is not in the column.
func reorderWithinColumn(todos []Todo, id string, status Status, toIndex int) (_ []Todo, ok bool) {
	all := slices.Clone(todos)
	slices.SortStableFunc(all, func(a, b Todo) int {
		return compareInts(a.Order, b.Order)
	})

	column := ColumnTodos(all, status)
	from := indexByID(column, id)
	if from < 0 {
		return nil, false
	}
	moving := column[from]
	column = slices.Delete(column, from, from+1)
	toIndex = min(max(toIndex, 0), len(column))
	column = slices.Insert(column, toIndex, moving)

	next := 0
	for i := range all {
		if all[i].Status != status {
			continue
		}
		all[i] = column[next]
		next++
	}
	return all, true
}
