package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/bmdash/internal/storage"
)

// exerciseStore runs the shared Store contract against any backend.
func exerciseStore(t *testing.T, s storage.Store) {
	t.Helper()

	if _, ok, err := s.Get("user_id"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set("user_id", "u-1"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := s.Set("user_id", "u-2"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	v, ok, err := s.Get("user_id")
	if err != nil || !ok {
		t.Fatalf("expected key present, got ok=%v err=%v", ok, err)
	}
	if v != "u-2" {
		t.Errorf("expected last write to win, got %q", v)
	}

	if err := s.Delete("user_id"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, ok, _ := s.Get("user_id"); ok {
		t.Error("expected key to be gone after delete")
	}
	if err := s.Delete("user_id"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := storage.NewJSONStore(path)

	exerciseStore(t, s)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("state file was not created")
	}
}

func TestJSONStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	if err := storage.NewJSONStore(path).Set("user_id", "abc"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	v, ok, err := storage.NewJSONStore(path).Get("user_id")
	if err != nil || !ok || v != "abc" {
		t.Errorf("expected abc, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestJSONStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := storage.NewJSONStore(path).Get("user_id"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestOpenStoreIn_FallsBackToJSON(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.OpenStoreIn(dir)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer s.Close()

	js, ok := s.(*storage.JSONStore)
	if !ok {
		t.Fatalf("expected JSONStore, got %T", s)
	}
	if js.Path() != filepath.Join(dir, storage.JSONFileName) {
		t.Errorf("unexpected path %q", js.Path())
	}
}

func TestOpenStoreIn_PrefersExistingSQLite(t *testing.T) {
	dir := t.TempDir()

	created, err := storage.NewSQLiteStore(filepath.Join(dir, storage.SQLiteFileName))
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	if err := created.Set("user_id", "from-sqlite"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	created.Close()

	s, err := storage.OpenStoreIn(dir)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*storage.SQLiteStore); !ok {
		t.Fatalf("expected SQLiteStore, got %T", s)
	}
	v, _, _ := s.Get("user_id")
	if v != "from-sqlite" {
		t.Errorf("expected from-sqlite, got %q", v)
	}
}

func TestOpenStoreKind(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.OpenStoreKind(dir, storage.KindSQLite)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if _, ok := s.(*storage.SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore, got %T", s)
	}
	s.Close()

	// The database now exists, so auto picks it up
	s, err = storage.OpenStoreKind(dir, storage.KindAuto)
	if err != nil {
		t.Fatalf("failed to open auto: %v", err)
	}
	if _, ok := s.(*storage.SQLiteStore); !ok {
		t.Errorf("auto: expected SQLiteStore, got %T", s)
	}
	s.Close()

	s, err = storage.OpenStoreKind(dir, storage.KindJSON)
	if err != nil {
		t.Fatalf("failed to open json: %v", err)
	}
	if _, ok := s.(*storage.JSONStore); !ok {
		t.Errorf("expected JSONStore, got %T", s)
	}
	s.Close()

	if _, err := storage.OpenStoreKind(dir, "redis"); !errors.Is(err, storage.ErrUnknownStoreKind) {
		t.Errorf("expected ErrUnknownStoreKind, got %v", err)
	}
}
