package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskboard"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskboard.db"
	DefaultExportDir      = "exports"
	DefaultStorageKey     = "advanced_todo_app"
	DefaultLocale         = "en"

	ViewList  = "list"
	ViewBoard = "board"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Left          string `toml:"left"`
	Right         string `toml:"right"`
	Toggle        string `toml:"toggle"`
	Delete        string `toml:"delete"`
	Detail        string `toml:"detail"`
	Confirm       string `toml:"confirm"`
	Cancel        string `toml:"cancel"`
	Edit          string `toml:"edit"`
	Rename        string `toml:"rename"`
	PriorityUp    string `toml:"priority_up"`
	PriorityDown  string `toml:"priority_down"`
	DueForward    string `toml:"due_forward"`
	DueBack       string `toml:"due_back"`
	SortDue       string `toml:"sort_due"`
	SortPriority  string `toml:"sort_priority"`
	SortCreated   string `toml:"sort_created"`
	SortTitle     string `toml:"sort_title"`
	SortOrder     string `toml:"sort_order"`
	ToggleView    string `toml:"toggle_view"`
	Search        string `toml:"search"`
	FilterCycle   string `toml:"filter_cycle"`
	CategoryCycle string `toml:"category_cycle"`
	PriorityCycle string `toml:"priority_cycle"`
	Theme         string `toml:"theme"`
	Export        string `toml:"export"`
	ShowCompleted string `toml:"show_completed"`
	MoveLeft      string `toml:"move_left"`
	MoveRight     string `toml:"move_right"`
	ReorderUp     string `toml:"reorder_up"`
	ReorderDown   string `toml:"reorder_down"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	StorageKey       string `toml:"storage_key"`
	MaxDocumentBytes int    `toml:"max_document_bytes"`
	ExportDir        string `toml:"export_dir"`
	DefaultFilter    string `toml:"default_filter"`
	DefaultView      string `toml:"default_view"`
	Locale           string `toml:"locale"`
	LogLevel         string `toml:"log_level"`
	LogFile          string `toml:"log_file"`
	LogFormat        string `toml:"log_format"`
	Keys             Keymap `toml:"keys"`
}

// ResolveConfigPath returns explicit when set, otherwise config.toml in the
// user config directory ($XDG_CONFIG_HOME/taskboard on Linux).
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. created reports whether it did. Relative paths in
// the file are resolved against the config file's directory.
func LoadOrCreate(path string) (cfg Config, created bool, err error) {
	cfg = defaultConfig()
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, false, err
		}
		return resolvePaths(cfg, path), true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = applyDefaults(cfg)
	return resolvePaths(cfg, path), false, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	return write(path, cfg)
}

// ErrUnknownKey is returned by Set for a key that cannot be set.
var ErrUnknownKey = errors.New("unknown config key")

// SettableKeys lists the keys Set accepts.
func SettableKeys() []string {
	return []string{"db_path", "storage_key", "export_dir", "default_filter", "default_view", "locale", "log_level", "log_file", "log_format"}
}

// Set changes one top-level setting in the file at path and saves it. Paths
// are stored as given, so relative paths keep resolving against the config
// directory.
func Set(path, key, value string) error {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	value = strings.TrimSpace(value)
	switch key {
	case "db_path":
		cfg.DBPath = value
	case "storage_key":
		cfg.StorageKey = value
	case "export_dir":
		cfg.ExportDir = value
	case "default_filter":
		cfg.DefaultFilter = strings.ToLower(value)
	case "default_view":
		v := strings.ToLower(value)
		if v != ViewList && v != ViewBoard {
			return fmt.Errorf("default_view must be %s or %s, got %q", ViewList, ViewBoard, value)
		}
		cfg.DefaultView = v
	case "locale":
		cfg.Locale = value
	case "log_level":
		v := strings.ToLower(value)
		switch v {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log_level must be debug, info, warn or error, got %q", value)
		}
		cfg.LogLevel = v
	case "log_file":
		cfg.LogFile = value
	case "log_format":
		v := strings.ToLower(value)
		switch v {
		case "text", "json", "logfmt":
		default:
			return fmt.Errorf("log_format must be text, json or logfmt, got %q", value)
		}
		cfg.LogFormat = v
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownKey, key, strings.Join(SettableKeys(), ", "))
	}
	return Save(path, applyDefaults(cfg))
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyDefaults(cfg Config) Config {
	def := defaultConfig()
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = def.StorageKey
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = def.ExportDir
	}
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = def.LogFormat
	}
	cfg.DefaultView = strings.ToLower(cfg.DefaultView)
	if cfg.DefaultView != ViewList && cfg.DefaultView != ViewBoard {
		cfg.DefaultView = def.DefaultView
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = def.DefaultFilter
	}
	return cfg
}

func resolvePaths(cfg Config, configPath string) Config {
	base := filepath.Dir(configPath)
	cfg.DBPath = resolve(base, cfg.DBPath)
	cfg.ExportDir = resolve(base, cfg.ExportDir)
	cfg.LogFile = resolve(base, cfg.LogFile)
	return cfg
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(base, p)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		StorageKey:    DefaultStorageKey,
		ExportDir:     DefaultExportDir,
		DefaultFilter: "all",
		DefaultView:   ViewList,
		Locale:        DefaultLocale,
		LogLevel:      "info",
		LogFormat:     "text",
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			Left:          "h",
			Right:         "l",
			Toggle:        " ",
			Delete:        "d",
			Detail:        "enter",
			Confirm:       "enter",
			Cancel:        "esc",
			Edit:          "e",
			Rename:        "r",
			PriorityUp:    "+",
			PriorityDown:  "-",
			DueForward:    "]",
			DueBack:       "[",
			SortDue:       "sd",
			SortPriority:  "sp",
			SortCreated:   "st",
			SortTitle:     "sa",
			SortOrder:     "so",
			ToggleView:    "tab",
			Search:        "/",
			FilterCycle:   "f",
			CategoryCycle: "c",
			PriorityCycle: "p",
			Theme:         "t",
			Export:        "x",
			ShowCompleted: ".",
			MoveLeft:      "<",
			MoveRight:     ">",
			ReorderUp:     "K",
			ReorderDown:   "J",
		},
	}
}
