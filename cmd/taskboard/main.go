// Package main implements the taskboard CLI and its terminal board.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/storage"
	"taskboard/internal/todo"
	"taskboard/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "taskboard: %v\n", err)
		os.Exit(1)
	}
}

var (
	rootConfigPath string
	rootBoard      bool
)

var rootCmd = &cobra.Command{
	Use:           "taskboard",
	Short:         "A todo list with a kanban board",
	Long:          "Run without a subcommand to open the interactive list and board.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/taskboard/config.toml)")
	rootCmd.Flags().BoolVar(&rootBoard, "board", false, "Start on the board view")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive board needs a terminal; see 'taskboard --help' for commands")
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(a.store, a.cfg, ui.Options{
		ConfigPath:  a.configPath,
		FirstLaunch: a.created,
		Board:       rootBoard,
		Logger:      a.logger,
	})
}

// app holds everything a command needs. Close releases the database and
// the log file.
type app struct {
	cfg        config.Config
	configPath string
	created    bool
	kv         *storage.KV
	store      *todo.Store
	logger     *log.Logger
	closeLog   func() error
}

// openApp loads the config and opens the store. Interactive sessions log to
// the configured log file since the terminal belongs to the UI; commands log
// to stderr.
func openApp(interactive bool) (*app, error) {
	path, err := config.ResolveConfigPath(rootConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	closeLog := func() error { return nil }
	if interactive {
		logger, closeLog, err = logging.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, err
		}
	}

	kv, err := storage.Open(cfg.DBPath, storage.Options{MaxValueBytes: cfg.MaxDocumentBytes})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := todo.NewStore(kv, todo.Options{Key: cfg.StorageKey, Logger: logger})
	logger.Debug("opened store", "db", cfg.DBPath, "key", store.Key())
	return &app{
		cfg:        cfg,
		configPath: path,
		created:    created,
		kv:         kv,
		store:      store,
		logger:     logger,
		closeLog:   closeLog,
	}, nil
}

func (a *app) Close() error {
	err := a.kv.Close()
	if logErr := a.closeLog(); err == nil {
		err = logErr
	}
	return err
}
