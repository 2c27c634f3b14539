package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/export"
	"taskboard/internal/todo"
	"taskboard/internal/view"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all todos to a dated JSON file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportDir    string
	exportStdout bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add todos from an exported JSON file, skipping IDs already stored",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category and print its ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryColor string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change display settings",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

var (
	settingsTheme         string
	settingsSort          string
	settingsShowCompleted bool
)

func init() {
	rootCmd.AddCommand(statsCmd, exportCmd, importCmd, categoryCmd, settingsCmd)
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")

	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Directory to write into (default from config)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the JSON to stdout instead of a file")

	categoryAddCmd.Flags().StringVar(&categoryColor, "color", "#667eea", "Hex color")

	settingsCmd.Flags().StringVar(&settingsTheme, "theme", "", "Theme (light, dark)")
	settingsCmd.Flags().StringVar(&settingsSort, "sort", "", "Default sort key")
	settingsCmd.Flags().BoolVar(&settingsShowCompleted, "show-completed", true, "Show completed todos in lists")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	todos, err := a.store.GetAll()
	if err != nil {
		return err
	}
	stats := view.ComputeStats(todos, time.Now())
	out := cmd.OutOrStdout()
	if statsJSON {
		return writeJSON(out, stats)
	}
	fmt.Fprintf(out, "Total:      %d\n", stats.Total)
	fmt.Fprintf(out, "Completed:  %d\n", stats.Completed)
	fmt.Fprintf(out, "Pending:    %d\n", stats.Pending)
	fmt.Fprintf(out, "Overdue:    %d\n", stats.Overdue)
	fmt.Fprintf(out, "Due today:  %d\n", stats.DueToday)
	fmt.Fprintf(out, "Completion: %d%%\n", stats.CompletionRate)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	todos, err := a.store.GetAll()
	if err != nil {
		return err
	}
	if exportStdout {
		return export.Write(cmd.OutOrStdout(), todos)
	}
	dir := a.cfg.ExportDir
	if exportDir != "" {
		dir = exportDir
	}
	path, err := export.ToDir(dir, todos, time.Now())
	if err != nil {
		return err
	}
	a.logger.Info("exported todos", "count", len(todos), "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	todos, err := export.ReadFile(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.Restore(todos)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d todos\n", n)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	categories, err := a.store.Categories()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), categoryTable(categories))
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	category, err := a.store.AddCategory(args[0], categoryColor)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), category.ID)
	return nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	var patch todo.SettingsPatch
	flags := cmd.Flags()
	if flags.Changed("theme") {
		theme, err := todo.ParseTheme(settingsTheme)
		if err != nil {
			return err
		}
		patch.Theme = &theme
	}
	if flags.Changed("sort") {
		key, err := todo.ParseSortKey(settingsSort)
		if err != nil {
			return err
		}
		patch.SortBy = &key
	}
	if flags.Changed("show-completed") {
		patch.ShowCompleted = &settingsShowCompleted
	}

	var settings todo.Settings
	if patch == (todo.SettingsPatch{}) {
		settings, err = a.store.Settings()
	} else {
		settings, err = a.store.UpdateSettings(patch)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "theme:          %s\n", settings.Theme)
	fmt.Fprintf(out, "sort:           %s\n", settings.SortBy)
	fmt.Fprintf(out, "show-completed: %t\n", settings.ShowCompleted)
	return nil
}
