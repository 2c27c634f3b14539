package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/config"
	"taskboard/internal/todo"
)

type memStorage struct {
	values map[string][]byte
	setErr error
}

func (s *memStorage) Get(key string) ([]byte, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memStorage) Set(key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, _, err := config.LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	return cfg
}

func newTestModel(t *testing.T, opts Options, titles ...string) (Model, *todo.Store, *memStorage) {
	t.Helper()
	storage := &memStorage{values: map[string][]byte{}}
	n := 0
	store := todo.NewStore(storage, todo.Options{
		Now: func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		},
	})
	for _, title := range titles {
		if _, err := store.Add(todo.NewTodo{Title: title}); err != nil {
			t.Fatalf("failed to add %q: %v", title, err)
		}
	}
	opts.Now = func() time.Time { return fixedNow }
	m, err := New(store, testConfig(t), opts)
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	return m, store, storage
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func mustGetAll(t *testing.T, store *todo.Store) []todo.Todo {
	t.Helper()
	todos, err := store.GetAll()
	if err != nil {
		t.Fatalf("failed to load todos: %v", err)
	}
	return todos
}

func TestAddTodo(t *testing.T) {
	m, store, _ := newTestModel(t, Options{})

	m = press(t, m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	m = typeText(t, m, "Buy milk")
	m = press(t, m, "enter")

	todos := mustGetAll(t, store)
	if len(todos) != 1 || todos[0].Title != "Buy milk" {
		t.Fatalf("expected one todo titled Buy milk, got %+v", todos)
	}
	if m.mode != modeList || m.status != "Added todo" {
		t.Errorf("expected list mode with status, got mode=%v status=%q", m.mode, m.status)
	}
	if len(m.visible) != 1 {
		t.Errorf("expected the new todo to be visible, got %d", len(m.visible))
	}
}

func TestAddTodo_EmptyTitle(t *testing.T) {
	m, store, _ := newTestModel(t, Options{})

	m = press(t, m, "a", " ", "enter")

	if len(mustGetAll(t, store)) != 0 {
		t.Error("expected no todo to be created")
	}
	if m.mode != modeAdd {
		t.Errorf("expected to stay in add mode, got %v", m.mode)
	}
	if !m.statusErr || m.status != todo.ErrEmptyTitle.Error() {
		t.Errorf("expected empty title error, got %q", m.status)
	}
}

func TestToggle(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "one")

	m = press(t, m, " ")
	if got := mustGetAll(t, store)[0]; !got.Completed || got.Status != todo.StatusCompleted {
		t.Errorf("expected completed todo, got %+v", got)
	}

	m = press(t, m, " ")
	if got := mustGetAll(t, store)[0]; got.Completed || got.Status != todo.StatusPending {
		t.Errorf("expected pending todo, got %+v", got)
	}
}

func TestDeleteConfirm(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "keep", "drop")

	m = press(t, m, "j", "d", "n")
	if len(mustGetAll(t, store)) != 2 {
		t.Fatal("expected cancelled delete to keep the todo")
	}

	m = press(t, m, "d", "y")
	todos := mustGetAll(t, store)
	if len(todos) != 1 || todos[0].Title != "keep" {
		t.Errorf("expected only keep to remain, got %+v", todos)
	}
	if m.confirmDel {
		t.Error("expected confirmation to be cleared")
	}
}

func TestSortChord(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "b", "a")

	m = press(t, m, "s", "a")

	settings, err := store.Settings()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if settings.SortBy != todo.SortTitle {
		t.Errorf("expected title sort, got %s", settings.SortBy)
	}
	if m.visible[0].Title != "a" {
		t.Errorf("expected a first, got %s", m.visible[0].Title)
	}

	m = press(t, m, "s", "z")
	if m.status != "Unknown sort sz" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestFilterCycleAndSearch(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "Buy milk", "Call mom", "Pay rent")
	if _, err := store.SetCompleted("id-03", true); err != nil {
		t.Fatalf("failed to complete: %v", err)
	}
	if err := m.reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	m = press(t, m, "f")
	if m.criteria.Status != "pending" {
		t.Fatalf("expected pending filter, got %q", m.criteria.Status)
	}
	if len(m.visible) != 2 {
		t.Errorf("expected 2 pending todos, got %d", len(m.visible))
	}

	m = press(t, m, "/")
	m = typeText(t, m, "MOM")
	m = press(t, m, "enter")
	if len(m.visible) != 1 || m.visible[0].Title != "Call mom" {
		t.Errorf("expected only Call mom, got %+v", m.visible)
	}

	m = press(t, m, "/", "esc")
	if m.criteria.Search != "" || len(m.visible) != 2 {
		t.Errorf("expected search cleared, got %q with %d visible", m.criteria.Search, len(m.visible))
	}
}

func TestShowCompletedToggle(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "open", "closed")
	if _, err := store.SetCompleted("id-02", true); err != nil {
		t.Fatalf("failed to complete: %v", err)
	}
	if err := m.reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	m = press(t, m, ".")
	if m.settings.ShowCompleted {
		t.Fatal("expected completed todos to be hidden")
	}
	if len(m.visible) != 1 || m.visible[0].Title != "open" {
		t.Errorf("expected only open, got %+v", m.visible)
	}
}

func TestPriorityAndDueKeys(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "task")

	m = press(t, m, "+", "+")
	if got := mustGetAll(t, store)[0].Priority; got != todo.PriorityUrgent {
		t.Errorf("expected urgent, got %s", got)
	}
	m = press(t, m, "+")
	if !strings.Contains(m.status, "already urgent") {
		t.Errorf("unexpected status %q", m.status)
	}
	m = press(t, m, "-")
	if got := mustGetAll(t, store)[0].Priority; got != todo.PriorityHigh {
		t.Errorf("expected high, got %s", got)
	}

	m = press(t, m, "]")
	if got := mustGetAll(t, store)[0].DueDate; got != todo.DateOf(fixedNow) {
		t.Errorf("expected due today, got %s", got)
	}
	m = press(t, m, "]", "]", "[")
	if got := mustGetAll(t, store)[0].DueDate; got != todo.DateOf(fixedNow).AddDays(1) {
		t.Errorf("expected due tomorrow, got %s", got)
	}
	if m.status != "Due Tomorrow" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestRename(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "old")

	m = press(t, m, "r", "backspace", "backspace", "backspace")
	m = typeText(t, m, "new")
	m = press(t, m, "enter")

	if got := mustGetAll(t, store)[0].Title; got != "new" {
		t.Errorf("expected new, got %q", got)
	}
}

func TestMetadataEdit(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "task")

	m = press(t, m, "e")
	if m.meta == nil {
		t.Fatal("expected metadata editor")
	}
	m = typeText(t, m, "details")
	m = press(t, m, "enter", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace")
	m = typeText(t, m, "Work")
	m = press(t, m, "tab", "tab")
	m = typeText(t, m, "2024-04-01")
	m = press(t, m, "tab")
	m = typeText(t, m, "a, b, a")
	m = press(t, m, "ctrl+s")

	if m.meta != nil {
		t.Fatalf("expected editor to close, status %q", m.status)
	}
	got := mustGetAll(t, store)[0]
	if got.Description != "details" || got.Category != "work" {
		t.Errorf("unexpected description/category: %+v", got)
	}
	if got.DueDate != todo.NewDate(2024, time.April, 1) {
		t.Errorf("expected due 2024-04-01, got %s", got.DueDate)
	}
	if strings.Join(got.Tags, ",") != "a,b" {
		t.Errorf("expected tags a,b, got %v", got.Tags)
	}
}

func TestMetadataEdit_InvalidPriority(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "task")

	m = press(t, m, "e", "tab", "tab")
	for range len("medium") {
		m = press(t, m, "backspace")
	}
	m = typeText(t, m, "bogus")
	m = press(t, m, "ctrl+s")

	if m.meta == nil {
		t.Fatal("expected editor to stay open")
	}
	if !m.statusErr || !strings.Contains(m.status, "priority invalid") {
		t.Errorf("expected priority error, got %q", m.status)
	}
	if got := mustGetAll(t, store)[0].Priority; got != todo.PriorityMedium {
		t.Errorf("expected priority unchanged, got %s", got)
	}
}

func TestListReorder(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "first", "second")

	m = press(t, m, "s", "o", "j", "K")
	todos := mustGetAll(t, store)
	order := map[string]int{}
	for _, td := range todos {
		order[td.Title] = td.Order
	}
	if order["second"] != 0 || order["first"] != 1 {
		t.Errorf("expected second before first, got %v", order)
	}
	if m.visible[m.cursor].Title != "second" {
		t.Errorf("expected cursor to follow the moved todo")
	}

	m = press(t, m, "s", "p", "J")
	if !strings.Contains(m.status, "manual sort") {
		t.Errorf("expected manual sort hint, got %q", m.status)
	}
}

func TestBoardMoves(t *testing.T) {
	m, store, _ := newTestModel(t, Options{Board: true}, "card")
	if m.layout != layoutBoard {
		t.Fatal("expected board layout")
	}

	m = press(t, m, ">")
	if got := mustGetAll(t, store)[0]; got.Status != todo.StatusInProgress || got.Completed {
		t.Fatalf("expected in progress, got %+v", got)
	}
	if m.column != 1 {
		t.Errorf("expected selection to follow the card, got column %d", m.column)
	}

	m = press(t, m, ">")
	if got := mustGetAll(t, store)[0]; got.Status != todo.StatusCompleted || !got.Completed {
		t.Fatalf("expected completed, got %+v", got)
	}

	m = press(t, m, ">")
	if m.column != 2 {
		t.Errorf("expected no move past the last column, got column %d", m.column)
	}

	m = press(t, m, "<")
	if got := mustGetAll(t, store)[0]; got.Status != todo.StatusInProgress || got.Completed {
		t.Errorf("expected back in progress, got %+v", got)
	}
}

func TestBoardReorderWithinColumn(t *testing.T) {
	m, store, _ := newTestModel(t, Options{Board: true}, "one", "two", "three")

	m = press(t, m, "j", "j", "K")
	got := mustGetAll(t, store)
	order := map[string]int{}
	for _, td := range got {
		order[td.Title] = td.Order
	}
	if !(order["one"] < order["three"] && order["three"] < order["two"]) {
		t.Errorf("expected one, three, two; got %v", order)
	}
	if m.row != 1 {
		t.Errorf("expected selection on row 1, got %d", m.row)
	}
}

func TestBoardStaleDropReloads(t *testing.T) {
	m, store, _ := newTestModel(t, Options{Board: true}, "one", "two")

	// Another process moves the selected card before the user reorders it.
	if _, err := store.SetStatus("id-01", todo.StatusInProgress); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}

	m = press(t, m, "J")
	if !m.statusErr || !strings.Contains(m.status, "board reloaded") {
		t.Errorf("expected a stale move error, got %q", m.status)
	}
	if got := len(m.boardColumns()[0].Todos); got != 1 {
		t.Errorf("expected the pending column to be reloaded with 1 card, got %d", got)
	}
	if got, err := store.Get("id-01"); err != nil || got.Status != todo.StatusInProgress {
		t.Errorf("expected the card to stay in progress, got %+v (%v)", got, err)
	}
}

func TestAddOnBoardUsesColumn(t *testing.T) {
	m, store, _ := newTestModel(t, Options{Board: true})

	m = press(t, m, "l", "a")
	m = typeText(t, m, "started")
	m = press(t, m, "enter")

	todos := mustGetAll(t, store)
	if len(todos) != 1 || todos[0].Status != todo.StatusInProgress {
		t.Errorf("expected an in progress todo, got %+v", todos)
	}
}

func TestToggleView(t *testing.T) {
	m, _, _ := newTestModel(t, Options{}, "one")
	m = press(t, m, "tab")
	if m.layout != layoutBoard {
		t.Fatal("expected board layout")
	}
	if !strings.Contains(m.View(), "In Progress (0)") {
		t.Errorf("expected board columns in view:\n%s", m.View())
	}
	m = press(t, m, "tab")
	if m.layout != layoutList {
		t.Error("expected list layout")
	}
}

func TestThemeToggle(t *testing.T) {
	m, store, _ := newTestModel(t, Options{})
	m = press(t, m, "t")
	settings, _ := store.Settings()
	if settings.Theme != todo.ThemeDark || m.settings.Theme != todo.ThemeDark {
		t.Errorf("expected dark theme, got %s", settings.Theme)
	}
}

func TestExport(t *testing.T) {
	m, _, _ := newTestModel(t, Options{}, "one", "two")

	m = press(t, m, "x")
	path := filepath.Join(m.cfg.ExportDir, "todos_2024-03-10.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file: %v (status %q)", err, m.status)
	}
	if !strings.Contains(m.status, "Exported 2 todos") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestPersistenceFailureIsReported(t *testing.T) {
	m, store, storage := newTestModel(t, Options{}, "one")
	storage.setErr = errors.New("quota exceeded")

	m = press(t, m, " ")

	if !m.statusErr || !strings.Contains(m.status, "not saved") {
		t.Errorf("expected persistence error, got %q", m.status)
	}
	if mustGetAll(t, store)[0].Completed {
		t.Error("expected todo to stay incomplete")
	}
	if !strings.Contains(m.View(), "not saved") {
		t.Error("expected the error in the view")
	}
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	if out := m.View(); !strings.Contains(out, "No todos yet") {
		t.Errorf("expected empty hint, got:\n%s", out)
	}

	m, _, _ = newTestModel(t, Options{}, "visible task")
	out := m.View()
	if !strings.Contains(out, "visible task") || !strings.Contains(out, "1 total") {
		t.Errorf("expected todo and stats in view, got:\n%s", out)
	}
}

func TestDetailPanelShowsDaysUntilDue(t *testing.T) {
	m, store, _ := newTestModel(t, Options{}, "report")
	due := todo.DateOf(fixedNow).AddDays(3)
	if _, err := store.Update("id-01", todo.Patch{DueDate: &due}); err != nil {
		t.Fatalf("failed to set due date: %v", err)
	}
	if err := m.reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if out := m.renderDetailPanel(); !strings.Contains(out, "due in 3 days") {
		t.Errorf("expected relative due date, got:\n%s", out)
	}
}

func TestCycle(t *testing.T) {
	options := []string{"all", "a", "b"}
	if got := cycle(options, ""); got != "a" {
		t.Errorf("expected a, got %s", got)
	}
	if got := cycle(options, "b"); got != "all" {
		t.Errorf("expected wrap to all, got %s", got)
	}
	if got := cycle(options, "missing"); got != "all" {
		t.Errorf("expected unknown to restart at all, got %s", got)
	}
}
