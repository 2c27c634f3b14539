package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"taskboard/internal/todo"
)

func sampleTodos() []todo.Todo {
	created := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	return []todo.Todo{
		{
			ID:          "a1",
			Title:       "Pay rent",
			Description: "before the 5th",
			Category:    "personal",
			Priority:    todo.PriorityUrgent,
			DueDate:     todo.NewDate(2024, time.March, 5),
			Status:      todo.StatusPending,
			Tags:        []string{"home", "money"},
			Order:       0,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:         "b2",
			Title:      "Ship release",
			Category:   "work",
			Priority:   todo.PriorityHigh,
			Completed:  true,
			Status:     todo.StatusCompleted,
			Tags:       []string{},
			Order:      1,
			AssignedBy: "lead",
			AssignedTo: "me",
			CreatedAt:  created.Add(time.Hour),
			UpdatedAt:  created.Add(2 * time.Hour),
		},
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, time.March, 7, 23, 10, 0, 0, time.UTC)
	if got := FileName(now); got != "todos_2024-03-07.json" {
		t.Errorf("expected todos_2024-03-07.json, got %q", got)
	}
}

func TestWrite_Indented(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTodos()[:1]); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[\n  {\n    \"id\": \"a1\",") {
		t.Errorf("expected two-space indented array, got:\n%s", out)
	}
	if !strings.Contains(out, `"dueDate": "2024-03-05"`) {
		t.Errorf("expected dueDate as a calendar date, got:\n%s", out)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleTodos()

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\nexpected %+v\ngot      %+v", want, got)
	}
}

func TestToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)

	path, err := ToDir(dir, sampleTodos(), now)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if want := filepath.Join(dir, "todos_2024-03-07.json"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file to exist: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(got) != 2 || got[1].Title != "Ship release" {
		t.Errorf("unexpected todos: %+v", got)
	}
}

func TestRead_AcceptsLegacyRecords(t *testing.T) {
	doc := `[{"id": "x", "title": "legacy", "completed": false, "dueDate": "", "tags": null}]`
	got, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if len(got) != 1 || got[0].HasDueDate() {
		t.Errorf("unexpected todos: %+v", got)
	}
}

func TestRead_KeepsSubtasks(t *testing.T) {
	doc := `[{"id": "x", "title": "with steps", "subtasks": [{"id": 1, "text": "first", "completed": true}]}]`
	got, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if len(got) != 1 || len(got[0].Subtasks) == 0 {
		t.Fatalf("expected subtasks to be kept, got %+v", got)
	}

	var buf bytes.Buffer
	if err := Write(&buf, got); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if !strings.Contains(buf.String(), `"text": "first"`) {
		t.Errorf("expected subtasks in the written document, got:\n%s", buf.String())
	}

	if _, err := Read(strings.NewReader(`[{"id": "x", "title": "bad", "subtasks": "none"}]`)); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected non-array subtasks to be rejected, got %v", err)
	}
}

func TestRead_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{name: "not an array", doc: `{"todos": []}`},
		{name: "missing title", doc: `[{"id": "x"}]`, path: "0"},
		{name: "bad priority", doc: `[{"id": "x", "title": "t", "priority": "critical"}]`, path: "0.priority"},
		{name: "bad status", doc: `[{"id": "x", "title": "t", "status": "done"}]`, path: "0.status"},
		{name: "negative order", doc: `[{"id": "x", "title": "t", "order": -1}]`, path: "0.order"},
		{name: "tag not string", doc: `[{"id": "x", "title": "t", "tags": [1]}]`, path: "0.tags.0"},
		{name: "malformed json", doc: `[{"id": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.doc))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
			if tc.path == "" {
				return
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected a SchemaError, got %T", err)
			}
			if se.Path != tc.path {
				t.Errorf("expected path %q, got %q (%v)", tc.path, se.Path, err)
			}
		})
	}
}
