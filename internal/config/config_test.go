package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskboard", "config.toml")

	cfg, created, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !created {
		t.Error("expected first load to create the file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "taskboard", DefaultDBName) {
		t.Errorf("expected db path next to config, got %s", cfg.DBPath)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("expected default storage key, got %s", cfg.StorageKey)
	}
	if cfg.Keys.ToggleView != "tab" || cfg.Keys.SortTitle != "sa" {
		t.Errorf("unexpected default keys: %+v", cfg.Keys)
	}

	_, created, err = LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if created {
		t.Error("expected second load to reuse the file")
	}
}

func TestLoadOrCreate_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `db_path = "/var/lib/tasks.db"
default_view = "BOARD"
log_file = "logs/taskboard.log"

[keys]
quit = "x"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, created, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if created {
		t.Error("expected existing file to be used")
	}
	if cfg.DBPath != "/var/lib/tasks.db" {
		t.Errorf("expected absolute db path to be kept, got %s", cfg.DBPath)
	}
	if cfg.DefaultView != ViewBoard {
		t.Errorf("expected board view, got %s", cfg.DefaultView)
	}
	if cfg.LogFile != filepath.Join(dir, "logs", "taskboard.log") {
		t.Errorf("expected log file relative to config, got %s", cfg.LogFile)
	}
	if cfg.Keys.Quit != "x" {
		t.Errorf("expected quit override, got %q", cfg.Keys.Quit)
	}
	if cfg.Keys.Add != "a" {
		t.Errorf("expected missing keys to keep defaults, got %q", cfg.Keys.Add)
	}
	if cfg.StorageKey != DefaultStorageKey || cfg.Locale != DefaultLocale {
		t.Errorf("expected defaults for missing fields, got %+v", cfg)
	}
}

func TestLoadOrCreate_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = ["), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	_, _, err := LoadOrCreate(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := defaultConfig()
	cfg.DefaultView = ViewBoard
	cfg.Keys.Quit = "ctrl+q"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, _, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.DefaultView != ViewBoard || got.Keys.Quit != "ctrl+q" {
		t.Errorf("expected saved values, got %+v", got)
	}
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("db_path = \"tasks.db\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := Set(path, "default_view", "Board"); err != nil {
		t.Fatalf("failed to set default_view: %v", err)
	}
	if err := Set(path, "locale", "de"); err != nil {
		t.Fatalf("failed to set locale: %v", err)
	}

	got, _, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.DefaultView != ViewBoard || got.Locale != "de" {
		t.Errorf("expected board and de, got %s and %s", got.DefaultView, got.Locale)
	}
	if got.DBPath != filepath.Join(dir, "tasks.db") {
		t.Errorf("expected relative db path to survive, got %s", got.DBPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if strings.Contains(string(data), dir) {
		t.Errorf("expected paths to be saved as given, got:\n%s", data)
	}
}

func TestSet_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Set(path, "colour", "red"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if err := Set(path, "default_view", "grid"); err == nil {
		t.Error("expected an invalid default_view to fail")
	}
	if err := Set(path, "log_level", "loud"); err == nil {
		t.Error("expected an invalid log_level to fail")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected rejected values not to write the file, got %v", err)
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got, err := ResolveConfigPath("/tmp/custom.toml"); err != nil || got != "/tmp/custom.toml" {
		t.Errorf("expected explicit path, got %q, %v", got, err)
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	got, err := ResolveConfigPath("")
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(AppName, DefaultConfigFileName)) {
		t.Errorf("unexpected config path %s", got)
	}
}
