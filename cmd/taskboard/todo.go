package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"taskboard/internal/todo"
	"taskboard/internal/view"
)

var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a todo and print its ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var (
	addDescription string
	addCategory    string
	addPriority    string
	addDue         string
	addTags        string
	addStatus      string
	addAssignedTo  string
	addAssignedBy  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listStatus   string
	listCategory string
	listPriority string
	listSearch   string
	listSort     string
	listAll      bool
	listJSON     bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var (
	editTitle       string
	editDescription string
	editCategory    string
	editPriority    string
	editDue         string
	editTags        string
	editStatus      string
	editAssignedTo  string
	editAssignedBy  string
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark todos completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(cmd, args, true)
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Mark todos not completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(cmd, args, false)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a todo to another board column (pending, inprogress, completed)",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete todos",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRm,
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Put the given todos first in the manual order, in the given order",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReorder,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, doneCmd, reopenCmd, moveCmd, rmCmd, reorderCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category ID or name (default personal)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high, urgent)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma separated tags")
	addCmd.Flags().StringVar(&addStatus, "status", "", "Board column (pending, inprogress, completed)")
	addCmd.Flags().StringVar(&addAssignedTo, "assigned-to", "", "Who the todo is for")
	addCmd.Flags().StringVar(&addAssignedBy, "assigned-by", "", "Who handed the todo out")

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (all, pending, inprogress, completed, overdue)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category ID or name")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search title, description and tags")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort key (order, createdAt, dueDate, priority, title)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include completed todos even when settings hide them")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category ID or name")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD, empty to clear)")
	editCmd.Flags().StringVarP(&editTags, "tags", "t", "", "New comma separated tags")
	editCmd.Flags().StringVar(&editStatus, "status", "", "New board column")
	editCmd.Flags().StringVar(&editAssignedTo, "assigned-to", "", "Who the todo is for")
	editCmd.Flags().StringVar(&editAssignedBy, "assigned-by", "", "Who handed the todo out")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if err := todo.ValidateTitle(title); err != nil {
		return err
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	in := todo.NewTodo{
		Title:       title,
		Description: addDescription,
		Tags:        todo.ParseTags(addTags),
		AssignedTo:  addAssignedTo,
		AssignedBy:  addAssignedBy,
	}
	if addCategory != "" {
		if in.Category, err = resolveCategory(a.store, addCategory); err != nil {
			return err
		}
	}
	if addPriority != "" {
		if in.Priority, err = todo.ParsePriority(addPriority); err != nil {
			return err
		}
	}
	if in.DueDate, err = todo.ParseDate(addDue); err != nil {
		return err
	}
	if addStatus != "" {
		if in.Status, err = todo.ParseStatus(addStatus); err != nil {
			return err
		}
	}

	created, err := a.store.Add(in)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), created.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.store.Load()
	if err != nil {
		return err
	}

	criteria := view.Criteria{Search: listSearch, Priority: listPriority}
	if listStatus != "" {
		status := strings.ToLower(listStatus)
		if !slices.Contains(view.StatusFilters(), status) {
			return fmt.Errorf("unknown status filter %q (want one of %s)", listStatus, strings.Join(view.StatusFilters(), ", "))
		}
		criteria.Status = status
	}
	if listPriority != "" && listPriority != view.All {
		p, err := todo.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		criteria.Priority = string(p)
	}
	if listCategory != "" && listCategory != view.All {
		if criteria.Category, err = resolveCategory(a.store, listCategory); err != nil {
			return err
		}
	}

	settings := doc.Settings
	if listSort != "" {
		if settings.SortBy, err = todo.ParseSortKey(listSort); err != nil {
			return err
		}
	}
	if listAll {
		settings.ShowCompleted = true
	}

	todos := view.DeriveLocale(doc.Todos, criteria, settings, time.Now(), locale(a.cfg.Locale))
	out := cmd.OutOrStdout()
	if listJSON {
		return writeJSON(out, todos)
	}
	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos")
		return nil
	}
	fmt.Fprintln(out, todoTable(todos, doc.Categories, time.Now()))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := getByPrefix(a.store, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, t)
	}
	categories, err := a.store.Categories()
	if err != nil {
		return err
	}
	writeDetail(out, t, categories, time.Now())
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.store.Resolve(args[0])
	if err != nil {
		return err
	}

	var patch todo.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		title := strings.TrimSpace(editTitle)
		if err := todo.ValidateTitle(title); err != nil {
			return err
		}
		patch.Title = &title
	}
	if flags.Changed("description") {
		patch.Description = &editDescription
	}
	if flags.Changed("category") {
		category, err := resolveCategory(a.store, editCategory)
		if err != nil {
			return err
		}
		patch.Category = &category
	}
	if flags.Changed("priority") {
		p, err := todo.ParsePriority(editPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("due") {
		due, err := todo.ParseDate(editDue)
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if flags.Changed("tags") {
		tags := todo.ParseTags(editTags)
		patch.Tags = &tags
	}
	if flags.Changed("status") {
		status, err := todo.ParseStatus(editStatus)
		if err != nil {
			return err
		}
		patch.Status = &status
	}
	if flags.Changed("assigned-to") {
		patch.AssignedTo = &editAssignedTo
	}
	if flags.Changed("assigned-by") {
		patch.AssignedBy = &editAssignedBy
	}
	if patch.IsEmpty() {
		return errors.New("nothing to change; pass at least one field flag")
	}

	updated, err := a.store.Update(id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", shortID(updated.ID))
	return nil
}

func runSetCompleted(cmd *cobra.Command, args []string, completed bool) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	verb := "completed"
	if !completed {
		verb = "reopened"
	}
	for _, arg := range args {
		id, err := a.store.Resolve(arg)
		if err != nil {
			return err
		}
		if _, err := a.store.SetCompleted(id, completed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, shortID(id))
	}
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	to, err := todo.ParseStatus(args[1])
	if err != nil {
		return err
	}
	todos, err := a.store.GetAll()
	if err != nil {
		return err
	}
	id, err := a.store.Resolve(args[0])
	if err != nil {
		return err
	}
	current := todos[slices.IndexFunc(todos, func(t todo.Todo) bool { return t.ID == id })]

	from := todo.ColumnTodos(todos, current.Status)
	ev := todo.DropEvent{
		TodoID:    id,
		From:      current.Status,
		FromIndex: slices.IndexFunc(from, func(t todo.Todo) bool { return t.ID == id }),
		To:        to,
		ToIndex:   len(todo.ColumnTodos(todos, to)),
	}
	moved, err := a.store.Move(ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", shortID(moved.ID), moved.Status.Title())
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, arg := range args {
		id, err := a.store.Resolve(arg)
		if err != nil {
			return err
		}
		if err := a.store.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(id))
	}
	return nil
}

func runReorder(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.store.Load()
	if err != nil {
		return err
	}
	current := view.Sort(doc.Todos, todo.SortOrder)

	var first []todo.Todo
	for _, arg := range args {
		id, err := a.store.Resolve(arg)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(current, func(t todo.Todo) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("%s listed twice", arg)
		}
		first = append(first, current[i])
		current = slices.Delete(current, i, i+1)
	}

	reordered, err := a.store.Reorder(append(first, current...))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), todoTable(view.Sort(reordered, todo.SortOrder), doc.Categories, time.Now()))
	return nil
}

func getByPrefix(store *todo.Store, prefix string) (todo.Todo, error) {
	id, err := store.Resolve(prefix)
	if err != nil {
		return todo.Todo{}, err
	}
	return store.Get(id)
}

// resolveCategory accepts a category ID or name, case-insensitively.
func resolveCategory(store *todo.Store, v string) (string, error) {
	categories, err := store.Categories()
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if strings.EqualFold(c.ID, v) || strings.EqualFold(c.Name, v) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", v)
}

func locale(tag string) language.Tag {
	parsed, err := language.Parse(tag)
	if err != nil {
		return view.DefaultLocale
	}
	return parsed
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
