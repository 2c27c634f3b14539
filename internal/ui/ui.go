package ui

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"taskboard/internal/config"
	"taskboard/internal/export"
	"taskboard/internal/todo"
	"taskboard/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeRename
	modeSearch
	modeMetadata
)

type layout int

const (
	layoutList layout = iota
	layoutBoard
)

type Options struct {
	ConfigPath  string
	FirstLaunch bool
	Board       bool
	Logger      *log.Logger
	Now         func() time.Time
}

type Model struct {
	store  *todo.Store
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time
	locale language.Tag

	todos      []todo.Todo
	visible    []todo.Todo
	categories []todo.Category
	settings   todo.Settings
	criteria   view.Criteria

	layout     layout
	cursor     int
	column     int
	row        int
	mode       mode
	input      textinput.Model
	status     string
	statusErr  bool
	chord      string
	confirmDel bool
	pendingDel *todo.Todo
	meta       *metaState
	styles     styles
}

func New(store *todo.Store, cfg config.Config, opts Options) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Todo title"
	ti.CharLimit = todo.MaxTitleLength
	ti.Width = 40

	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		locale = view.DefaultLocale
	}

	m := Model{
		store:  store,
		cfg:    cfg,
		logger: opts.Logger,
		now:    opts.Now,
		locale: locale,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' for the board.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.ToggleView),
	}
	if slices.Contains(view.StatusFilters(), strings.ToLower(cfg.DefaultFilter)) {
		m.criteria.Status = strings.ToLower(cfg.DefaultFilter)
	}
	if opts.Board || cfg.DefaultView == config.ViewBoard {
		m.layout = layoutBoard
	}
	if opts.FirstLaunch && opts.ConfigPath != "" {
		m.status = "Created config at " + opts.ConfigPath
	}
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

func Run(store *todo.Store, cfg config.Config, opts Options) error {
	m, err := New(store, cfg, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.meta != nil {
			return m.updateMetadataMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeRename:
		return m.updateRenameMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}

	if m.chord != "" {
		chord := m.chord + key
		m.chord = ""
		return m.handleChord(chord)
	}
	if isChordPrefix(m.cfg.Keys, key) {
		m.chord = key
		m.status = "Sort: " + sortHelp(m.cfg.Keys)
		return m, nil
	}

	if m.layout == layoutBoard {
		if next, cmd, ok := m.updateBoardMode(key); ok {
			return next, cmd
		}
	} else if next, cmd, ok := m.updateListNavigation(key); ok {
		return next, cmd
	}
	return m.updateCommon(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case m.cfg.Keys.Confirm:
		title := strings.TrimSpace(m.input.Value())
		if err := todo.ValidateTitle(title); err != nil {
			m.setError(err)
			return m, nil
		}
		in := todo.NewTodo{Title: title}
		if category := m.criteria.Category; category != "" && category != view.All {
			in.Category = category
		}
		if m.layout == layoutBoard {
			in.Status = m.columnStatus()
		}
		created, err := m.store.Add(in)
		if err != nil {
			m.setError(fmt.Errorf("save failed: %w", err))
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("reload failed: %w", err))
			return m, nil
		}
		m.selectID(created.ID)
		m.setStatus("Added todo")
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateRenameMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Rename cancelled")
		return m, nil
	case m.cfg.Keys.Confirm:
		t, ok := m.selected()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		title := strings.TrimSpace(m.input.Value())
		if err := todo.ValidateTitle(title); err != nil {
			m.setError(err)
			return m, nil
		}
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		return m.mutate(t.ID, todo.Patch{Title: &title}, "Renamed todo")
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.criteria.Search = ""
		m.refreshVisible()
		m.setStatus("Search cleared")
		return m, nil
	case m.cfg.Keys.Confirm:
		m.mode = modeList
		m.input.Blur()
		m.setStatus(fmt.Sprintf("%d matching todos", len(m.visible)))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.criteria.Search = strings.TrimSpace(m.input.Value())
		m.refreshVisible()
		return m, cmd
	}
}

func (m Model) updateListNavigation(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case m.cfg.Keys.Down, "down":
		if len(m.visible) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(m.visible))
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case m.cfg.Keys.ReorderUp:
		next, cmd := m.reorderList(-1)
		return next, cmd, true
	case m.cfg.Keys.ReorderDown:
		next, cmd := m.reorderList(1)
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) updateCommon(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Todo title"
		m.input.Focus()
		m.setStatus("Add mode: type a title and press Enter")
	case k.Rename:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No todo selected")
			return m, nil
		}
		m.mode = modeRename
		m.input.SetValue(t.Title)
		m.input.CursorEnd()
		m.input.Placeholder = "New title"
		m.input.Focus()
		m.setStatus("Rename: edit the title and press Enter")
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.criteria.Search)
		m.input.CursorEnd()
		m.input.Placeholder = "Search title, description, tags"
		m.input.Focus()
		m.setStatus("Search: type to filter, Enter to keep, Esc to clear")
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		updated, err := m.store.SetCompleted(t.ID, !t.Completed)
		if err != nil {
			m.setError(fmt.Errorf("toggle failed: %w", err))
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("reload failed: %w", err))
			return m, nil
		}
		if m.layout == layoutBoard {
			m.selectID(updated.ID)
		} else {
			m.cursor = clampCursor(m.cursor+1, len(m.visible))
		}
		m.setStatus("Toggled todo")
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Title))
	case k.Detail:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No todos")
			return m, nil
		}
		m.setStatus(m.describe(t))
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No todos to edit")
			return m, nil
		}
		return m.startMetadataEdit(t)
	case k.PriorityUp, k.PriorityDown:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		p := t.Priority.Raise()
		if key == k.PriorityDown {
			p = t.Priority.Lower()
		}
		if p == t.Priority {
			m.setStatus("Priority is already " + string(p))
			return m, nil
		}
		return m.mutate(t.ID, todo.Patch{Priority: &p}, "Priority "+string(p))
	case k.DueForward, k.DueBack:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		due := view.Today(m.now())
		if t.HasDueDate() {
			step := 1
			if key == k.DueBack {
				step = -1
			}
			due = t.DueDate.AddDays(step)
		}
		return m.mutate(t.ID, todo.Patch{DueDate: &due}, "Due "+view.FormatDate(due, m.now()))
	case k.ToggleView:
		if m.layout == layoutBoard {
			m.layout = layoutList
			m.setStatus("List view")
		} else {
			m.layout = layoutBoard
			m.column, m.row = 0, 0
			m.setStatus("Board view")
		}
	case k.FilterCycle:
		m.criteria.Status = cycle(view.StatusFilters(), m.criteria.Status)
		m.refreshVisible()
		m.setStatus("Status filter: " + m.criteria.Status)
	case k.CategoryCycle:
		options := []string{view.All}
		for _, c := range m.categories {
			options = append(options, c.ID)
		}
		m.criteria.Category = cycle(options, m.criteria.Category)
		m.refreshVisible()
		m.setStatus("Category filter: " + view.CategoryName(m.categories, m.criteria.Category))
	case k.PriorityCycle:
		options := []string{view.All}
		for _, p := range todo.ValidPriorities() {
			options = append(options, string(p))
		}
		m.criteria.Priority = cycle(options, m.criteria.Priority)
		m.refreshVisible()
		m.setStatus("Priority filter: " + m.criteria.Priority)
	case k.Theme:
		theme := m.settings.Theme.Toggle()
		return m.updateSettings(todo.SettingsPatch{Theme: &theme}, "Theme "+string(theme))
	case k.ShowCompleted:
		show := !m.settings.ShowCompleted
		msg := "Hiding completed todos"
		if show {
			msg = "Showing completed todos"
		}
		return m.updateSettings(todo.SettingsPatch{ShowCompleted: &show}, msg)
	case k.Export:
		path, err := export.ToDir(m.cfg.ExportDir, m.todos, m.now())
		if err != nil {
			m.setError(fmt.Errorf("export failed: %w", err))
			return m, nil
		}
		m.logger.Info("exported todos", "path", path, "count", len(m.todos))
		m.setStatus(fmt.Sprintf("Exported %d todos to %s", len(m.todos), path))
	}
	return m, nil
}

func (m Model) handleChord(chord string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	var key todo.SortKey
	switch chord {
	case k.SortDue:
		key = todo.SortDueDate
	case k.SortPriority:
		key = todo.SortPriority
	case k.SortCreated:
		key = todo.SortCreatedAt
	case k.SortTitle:
		key = todo.SortTitle
	case k.SortOrder:
		key = todo.SortOrder
	default:
		m.setStatus("Unknown sort " + chord)
		return m, nil
	}
	return m.updateSettings(todo.SettingsPatch{SortBy: &key}, "Sorted by "+string(key))
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.setStatus("Delete cancelled")
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.setStatus("Nothing to delete")
			m.confirmDel = false
			return m, nil
		}
		id := m.pendingDel.ID
		m.confirmDel = false
		m.pendingDel = nil
		if err := m.store.Delete(id); err != nil {
			m.setError(fmt.Errorf("delete failed: %w", err))
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("reload failed: %w", err))
			return m, nil
		}
		m.setStatus("Deleted todo")
		return m, nil
	default:
		return m, nil
	}
}

// reorderList swaps the selected todo with its neighbour in the manual
// order. It only applies while the list is sorted by manual order.
func (m Model) reorderList(step int) (tea.Model, tea.Cmd) {
	if m.settings.SortBy != todo.SortOrder {
		m.setStatus(fmt.Sprintf("Reordering needs manual sort (%s)", m.cfg.Keys.SortOrder))
		return m, nil
	}
	target := m.cursor + step
	if len(m.visible) == 0 || target < 0 || target >= len(m.visible) {
		return m, nil
	}
	a, b := m.visible[m.cursor].ID, m.visible[target].ID
	ordered := view.Sort(m.todos, todo.SortOrder)
	i := slices.IndexFunc(ordered, func(t todo.Todo) bool { return t.ID == a })
	j := slices.IndexFunc(ordered, func(t todo.Todo) bool { return t.ID == b })
	ordered[i], ordered[j] = ordered[j], ordered[i]
	if _, err := m.store.Reorder(ordered); err != nil {
		m.setError(fmt.Errorf("reorder failed: %w", err))
		return m, nil
	}
	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return m, nil
	}
	m.selectID(a)
	m.setStatus("Moved todo")
	return m, nil
}

func (m Model) mutate(id string, patch todo.Patch, ok string) (tea.Model, tea.Cmd) {
	if _, err := m.store.Update(id, patch); err != nil {
		m.setError(fmt.Errorf("save failed: %w", err))
		return m, nil
	}
	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return m, nil
	}
	m.selectID(id)
	m.setStatus(ok)
	return m, nil
}

func (m Model) updateSettings(patch todo.SettingsPatch, ok string) (tea.Model, tea.Cmd) {
	if _, err := m.store.UpdateSettings(patch); err != nil {
		m.setError(fmt.Errorf("settings failed: %w", err))
		return m, nil
	}
	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return m, nil
	}
	m.setStatus(ok)
	return m, nil
}

func (m *Model) reload() error {
	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	m.todos = doc.Todos
	m.categories = doc.Categories
	m.settings = doc.Settings
	m.styles = newStyles(doc.Settings.Theme)
	m.refreshVisible()
	m.clampBoard()
	return nil
}

func (m *Model) refreshVisible() {
	m.visible = view.DeriveLocale(m.todos, m.criteria, m.settings, m.now(), m.locale)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) selected() (todo.Todo, bool) {
	if m.layout == layoutBoard {
		column := m.boardColumns()[m.column].Todos
		if len(column) == 0 {
			return todo.Todo{}, false
		}
		return column[clampCursor(m.row, len(column))], true
	}
	if len(m.visible) == 0 {
		return todo.Todo{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

// selectID moves the list cursor and the board selection onto id when it is
// visible.
func (m *Model) selectID(id string) {
	if i := slices.IndexFunc(m.visible, func(t todo.Todo) bool { return t.ID == id }); i >= 0 {
		m.cursor = i
	}
	for c, column := range m.boardColumns() {
		if r := slices.IndexFunc(column.Todos, func(t todo.Todo) bool { return t.ID == id }); r >= 0 {
			m.column, m.row = c, r
			return
		}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger.Error("ui action failed", "err", err)
	m.status = err.Error()
	if errors.Is(err, todo.ErrPersistence) {
		m.status += " (changes were not saved)"
	}
	m.statusErr = true
}

func (m Model) describe(t todo.Todo) string {
	now := m.now()
	parts := []string{t.Title, t.Status.Title(), "priority:" + string(t.Priority), "category:" + view.CategoryName(m.categories, t.Category)}
	if t.HasDueDate() {
		label := "due:" + view.FormatDate(t.DueDate, now)
		if !t.Completed && view.IsOverdue(t.DueDate, now) {
			label += " (overdue)"
		}
		parts = append(parts, label)
	}
	if len(t.Tags) > 0 {
		parts = append(parts, "tags:"+strings.Join(t.Tags, ","))
	}
	if t.AssignedTo != "" {
		parts = append(parts, "for:"+t.AssignedTo)
	}
	if t.AssignedBy != "" {
		parts = append(parts, "by:"+t.AssignedBy)
	}
	parts = append(parts, "created "+view.FormatDateTime(t.CreatedAt.In(now.Location())))
	return strings.Join(parts, " • ")
}

func isChordPrefix(k config.Keymap, key string) bool {
	for _, chord := range []string{k.SortDue, k.SortPriority, k.SortCreated, k.SortTitle, k.SortOrder} {
		if len(chord) > len(key) && strings.HasPrefix(chord, key) {
			return true
		}
	}
	return false
}

func cycle(options []string, current string) string {
	if current == "" {
		current = view.All
	}
	i := slices.Index(options, current)
	return options[wrapIndex(i+1, len(options))]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
