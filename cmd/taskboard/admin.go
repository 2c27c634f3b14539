package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"taskboard/internal/config"
	"taskboard/internal/view"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the config file in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a config setting (" + strings.Join(config.SettableKeys(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the key-value database",
}

var storageKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE:  runStorageKeys,
}

var storageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the todo document; the next command starts from defaults",
	Args:  cobra.NoArgs,
	RunE:  runStorageReset,
}

var storageResetYes bool

func init() {
	rootCmd.AddCommand(configCmd, storageCmd)
	configCmd.AddCommand(configSetCmd)
	storageCmd.AddCommand(storageKeysCmd, storageResetCmd)

	storageResetCmd.Flags().BoolVarP(&storageResetYes, "yes", "y", false, "Confirm deleting every todo, category and setting")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:         %s\n", a.configPath)
	fmt.Fprintf(out, "db_path:        %s\n", a.cfg.DBPath)
	fmt.Fprintf(out, "storage_key:    %s\n", a.store.Key())
	fmt.Fprintf(out, "export_dir:     %s\n", a.cfg.ExportDir)
	fmt.Fprintf(out, "default_filter: %s\n", a.cfg.DefaultFilter)
	fmt.Fprintf(out, "default_view:   %s\n", a.cfg.DefaultView)
	fmt.Fprintf(out, "locale:         %s\n", a.cfg.Locale)
	fmt.Fprintf(out, "log_level:      %s\n", a.cfg.LogLevel)
	fmt.Fprintf(out, "log_file:       %s\n", a.cfg.LogFile)
	fmt.Fprintf(out, "log_format:     %s\n", a.cfg.LogFormat)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	switch key {
	case "locale":
		if _, err := language.Parse(value); err != nil {
			return fmt.Errorf("invalid locale %q: %w", value, err)
		}
	case "default_filter":
		if !slices.Contains(view.StatusFilters(), strings.ToLower(value)) {
			return fmt.Errorf("default_filter must be one of %s, got %q", strings.Join(view.StatusFilters(), ", "), value)
		}
	}

	path, err := config.ResolveConfigPath(rootConfigPath)
	if err != nil {
		return err
	}
	if _, _, err := config.LoadOrCreate(path); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}

func runStorageKeys(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	keys, err := a.kv.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func runStorageReset(cmd *cobra.Command, args []string) error {
	if !storageResetYes {
		return errors.New("reset deletes every todo; pass --yes to confirm")
	}
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.kv.Remove(a.store.Key()); err != nil {
		return err
	}
	a.logger.Info("removed document", "key", a.store.Key())
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", a.store.Key())
	return nil
}
