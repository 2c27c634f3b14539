package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func openTestKV(t *testing.T, opts Options) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "nested", "taskboard.db"), opts)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestGetSet(t *testing.T) {
	kv := openTestKV(t, Options{})

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := kv.Set("doc", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := kv.Set("doc", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	got, ok, err := kv.Get("doc")
	if err != nil || !ok {
		t.Fatalf("failed to get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("expected overwritten value, got %s", got)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.db")

	kv, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := kv.Set("k", []byte("v")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	kv.Close()

	kv, err = Open(path, Options{})
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer kv.Close()

	got, ok, err := kv.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("expected v, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestQuota(t *testing.T) {
	kv := openTestKV(t, Options{MaxValueBytes: 8})

	if err := kv.Set("small", []byte("12345678")); err != nil {
		t.Fatalf("expected value at the limit to fit: %v", err)
	}
	err := kv.Set("small", []byte("123456789"))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	got, _, _ := kv.Get("small")
	if string(got) != "12345678" {
		t.Errorf("expected rejected write to leave the old value, got %q", got)
	}

	unlimited := openTestKV(t, Options{MaxValueBytes: -1})
	if err := unlimited.Set("big", []byte(strings.Repeat("x", 1024))); err != nil {
		t.Errorf("expected no limit, got %v", err)
	}
}

func TestRemoveAndKeys(t *testing.T) {
	kv := openTestKV(t, Options{})

	for _, k := range []string{"b", "a", "c"} {
		if err := kv.Set(k, []byte(k)); err != nil {
			t.Fatalf("failed to set %s: %v", k, err)
		}
	}
	if err := kv.Remove("b"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if err := kv.Remove("missing"); err != nil {
		t.Errorf("expected removing an absent key to succeed, got %v", err)
	}

	keys, err := kv.Keys()
	if err != nil {
		t.Fatalf("failed to list keys: %v", err)
	}
	if want := []string{"a", "c"}; !slices.Equal(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}

func TestOpen_UpgradesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		t.Fatalf("failed to open raw db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);
INSERT INTO kv (key, value) VALUES ('k', 'old');`); err != nil {
		t.Fatalf("failed to create old schema: %v", err)
	}
	db.Close()

	kv, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("failed to open old database: %v", err)
	}
	defer kv.Close()

	if got, ok, err := kv.Get("k"); err != nil || !ok || string(got) != "old" {
		t.Errorf("expected old value, got %q ok=%v err=%v", got, ok, err)
	}
	if err := kv.Set("k", []byte("new")); err != nil {
		t.Errorf("expected set to work after upgrade, got %v", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("", Options{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSqliteDSN(t *testing.T) {
	dsn := sqliteDSN("/tmp/x.db")
	if !strings.HasPrefix(dsn, "file:///tmp/x.db?") {
		t.Errorf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "busy_timeout") || !strings.Contains(dsn, "mode=rwc") {
		t.Errorf("expected pragmas in dsn %q", dsn)
	}
	if got := sqliteDSN("file:memdb?mode=memory"); got != "file:memdb?mode=memory" {
		t.Errorf("expected file: DSN to pass through, got %q", got)
	}
}
