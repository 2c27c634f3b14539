package todo

import (
	"fmt"
	"slices"
	"strings"
)

// GetAll returns the todos in insertion order. Sorting is a view concern.
func (s *Store) GetAll() ([]Todo, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Todos, nil
}

// Get returns the todo with the given ID.
func (s *Store) Get(id string) (Todo, error) {
	todos, err := s.GetAll()
	if err != nil {
		return Todo{}, err
	}
	i := indexByID(todos, id)
	if i < 0 {
		return Todo{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return todos[i], nil
}

// Resolve expands a unique ID prefix into a full ID. An exact match always
// wins over prefix matches.
func (s *Store) Resolve(prefix string) (string, error) {
	todos, err := s.GetAll()
	if err != nil {
		return "", err
	}
	return resolveID(todos, prefix)
}

func resolveID(todos []Todo, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty ID", ErrNotFound)
	}
	var matches []string
	for _, t := range todos {
		id := strings.ToLower(t.ID)
		if id == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguousID, prefix, strings.Join(matches, ", "))
	}
}

// NewTodo is the input to Add. Zero values take the documented defaults.
type NewTodo struct {
	Title       string
	Description string
	Category    string   // defaults to DefaultCategoryID
	Priority    Priority // defaults to PriorityMedium
	DueDate     Date
	Tags        []string
	Status      Status // defaults to StatusPending
	AssignedBy  string
	AssignedTo  string
}

// Add creates a todo at the end of the manual order and returns it.
// The title is stored as given; callers validate it with ValidateTitle.
func (s *Store) Add(in NewTodo) (Todo, error) {
	var created Todo
	err := s.update(func(doc *Document) (bool, error) {
		now := s.now()
		created = Todo{
			ID:          s.newID(),
			Title:       in.Title,
			Description: in.Description,
			Category:    in.Category,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
			Tags:        in.Tags,
			Status:      in.Status,
			AssignedBy:  in.AssignedBy,
			AssignedTo:  in.AssignedTo,
			Order:       len(doc.Todos),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if created.Status.IsValid() {
			applyStatus(&created, created.Status)
		}
		normalizeTodo(&created)
		doc.Todos = append(doc.Todos, created)
		return true, nil
	})
	if err != nil {
		return Todo{}, err
	}
	s.logger.Debug("added todo", "id", created.ID, "order", created.Order)
	return created, nil
}

// Patch describes a change to a todo. Nil fields are left unchanged.
//
// Status and Completed are kept in sync: an explicit Status sets Completed,
// and an explicit Completed without Status moves the todo into or out of the
// completed column.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	DueDate     *Date // a pointer to the zero Date clears the deadline
	Tags        *[]string
	Completed   *bool
	Status      *Status
	AssignedBy  *string
	AssignedTo  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p Patch) apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if p.AssignedBy != nil {
		t.AssignedBy = *p.AssignedBy
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	switch {
	case p.Status != nil:
		applyStatus(t, *p.Status)
	case p.Completed != nil:
		applyCompleted(t, *p.Completed)
	}
	normalizeTodo(t)
}

// Update merges patch onto the todo with the given ID and refreshes
// UpdatedAt. It returns ErrNotFound, without writing, if no such todo exists.
func (s *Store) Update(id string, patch Patch) (Todo, error) {
	var updated Todo
	err := s.update(func(doc *Document) (bool, error) {
		i := indexByID(doc.Todos, id)
		if i < 0 {
			return false, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		patch.apply(&doc.Todos[i])
		doc.Todos[i].UpdatedAt = s.now()
		updated = doc.Todos[i]
		return true, nil
	})
	if err != nil {
		return Todo{}, err
	}
	return updated, nil
}

// SetStatus moves a todo to a board column.
func (s *Store) SetStatus(id string, status Status) (Todo, error) {
	if !status.IsValid() {
		return Todo{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Update(id, Patch{Status: &status})
}

// SetCompleted marks a todo completed or not.
func (s *Store) SetCompleted(id string, completed bool) (Todo, error) {
	return s.Update(id, Patch{Completed: &completed})
}

// Delete removes the todo with the given ID. Deleting an unknown ID is a
// no-op and does not write.
func (s *Store) Delete(id string) error {
	return s.update(func(doc *Document) (bool, error) {
		i := indexByID(doc.Todos, id)
		if i < 0 {
			return false, nil
		}
		doc.Todos = slices.Delete(doc.Todos, i, i+1)
		s.logger.Debug("deleted todo", "id", id)
		return true, nil
	})
}

// Reorder persists todos in the given sequence, setting each Order to its
// index. The entities are written as given, so the list must hold the
// current records: any stale field in it replaces the stored value.
// It returns ErrReorderMismatch, without writing, when todos is not a
// permutation of the stored todos. UpdatedAt is left as given: a change of
// position is not an edit of the todo.
func (s *Store) Reorder(todos []Todo) ([]Todo, error) {
	var reordered []Todo
	err := s.update(func(doc *Document) (bool, error) {
		if err := checkPermutation(doc.Todos, todos); err != nil {
			return false, err
		}
		reordered = make([]Todo, len(todos))
		for i, t := range todos {
			t.Order = i
			t.Tags = slices.Clone(t.Tags)
			normalizeTodo(&t)
			reordered[i] = t
		}
		doc.Todos = reordered
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

func checkPermutation(stored, given []Todo) error {
	if len(stored) != len(given) {
		return fmt.Errorf("%w: got %d todos, have %d", ErrReorderMismatch, len(given), len(stored))
	}
	remaining := make(map[string]struct{}, len(stored))
	for _, t := range stored {
		remaining[t.ID] = struct{}{}
	}
	for _, t := range given {
		if _, ok := remaining[t.ID]; !ok {
			return fmt.Errorf("%w: unexpected or repeated id %s", ErrReorderMismatch, t.ID)
		}
		delete(remaining, t.ID)
	}
	return nil
}

// Restore appends todos whose IDs are not already stored, keeping their
// fields and giving them Order values after the existing todos. It returns
// the number of todos added.
func (s *Store) Restore(todos []Todo) (int, error) {
	added := 0
	err := s.update(func(doc *Document) (bool, error) {
		existing := make(map[string]struct{}, len(doc.Todos))
		for _, t := range doc.Todos {
			existing[t.ID] = struct{}{}
		}
		for _, t := range todos {
			if t.ID == "" {
				t.ID = s.newID()
			}
			if _, ok := existing[t.ID]; ok {
				continue
			}
			existing[t.ID] = struct{}{}
			if t.CreatedAt.IsZero() {
				t.CreatedAt = s.now()
			}
			if t.UpdatedAt.IsZero() {
				t.UpdatedAt = t.CreatedAt
			}
			t.Order = len(doc.Todos)
			normalizeTodo(&t)
			doc.Todos = append(doc.Todos, t)
			added++
		}
		return added > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Categories returns all categories.
func (s *Store) Categories() ([]Category, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// AddCategory creates a category with a fresh ID.
func (s *Store) AddCategory(name, color string) (Category, error) {
	category := Category{ID: s.newID(), Name: name, Color: color}
	err := s.update(func(doc *Document) (bool, error) {
		doc.Categories = append(doc.Categories, category)
		return true, nil
	})
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

// Settings returns the current settings.
func (s *Store) Settings() (Settings, error) {
	doc, err := s.Load()
	if err != nil {
		return Settings{}, err
	}
	return doc.Settings, nil
}

// SettingsPatch describes a settings change. Nil fields are left unchanged.
type SettingsPatch struct {
	Theme         *Theme
	SortBy        *SortKey
	ShowCompleted *bool
}

// UpdateSettings merges patch onto the stored settings.
func (s *Store) UpdateSettings(patch SettingsPatch) (Settings, error) {
	if patch.Theme != nil && !patch.Theme.IsValid() {
		return Settings{}, fmt.Errorf("%w: %q", ErrInvalidTheme, *patch.Theme)
	}
	if patch.SortBy != nil && !patch.SortBy.IsValid() {
		return Settings{}, fmt.Errorf("%w: %q", ErrInvalidSortKey, *patch.SortBy)
	}
	var settings Settings
	err := s.update(func(doc *Document) (bool, error) {
		if patch.Theme != nil {
			doc.Settings.Theme = *patch.Theme
		}
		if patch.SortBy != nil {
			doc.Settings.SortBy = *patch.SortBy
		}
		if patch.ShowCompleted != nil {
			doc.Settings.ShowCompleted = *patch.ShowCompleted
		}
		settings = doc.Settings
		return true, nil
	})
	if err != nil {
		return Settings{}, err
	}
	return settings, nil
}
