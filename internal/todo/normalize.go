package todo

import "strings"

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence. It never returns nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits a comma-separated tag list.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// normalizeTodo fills defaults for records written by older shapes of the
// document and reconciles Status with Completed. Completed wins: a record
// without status becomes completed or pending, a completed record is always
// in the completed column and an uncompleted record never is.
func normalizeTodo(t *Todo) {
	if t.Category == "" {
		t.Category = DefaultCategoryID
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.Tags = NormalizeTags(t.Tags)
	if string(t.Subtasks) == "null" {
		t.Subtasks = nil
	}
	t.Status = reconcileStatus(t.Status, t.Completed)
}

func reconcileStatus(status Status, completed bool) Status {
	if completed {
		return StatusCompleted
	}
	if status == StatusCompleted || !status.IsValid() {
		return StatusPending
	}
	return status
}

// applyStatus moves t to status and syncs Completed.
func applyStatus(t *Todo, status Status) {
	t.Status = status
	t.Completed = status == StatusCompleted
}

// applyCompleted sets Completed and moves t into or out of the completed
// column. An in-progress todo that is marked incomplete stays in progress.
func applyCompleted(t *Todo, completed bool) {
	t.Completed = completed
	t.Status = reconcileStatus(t.Status, completed)
}

func normalizeDocument(doc *Document) {
	if doc.Todos == nil {
		doc.Todos = []Todo{}
	}
	if doc.Categories == nil {
		doc.Categories = DefaultCategories()
	}
	for i := range doc.Todos {
		normalizeTodo(&doc.Todos[i])
	}
	if !doc.Settings.Theme.IsValid() {
		doc.Settings.Theme = ThemeLight
	}
	if !doc.Settings.SortBy.IsValid() {
		doc.Settings.SortBy = SortOrder
	}
}
