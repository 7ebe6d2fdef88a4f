package storage_test

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/storage"
)

func newSQLite(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "shortcuts.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	s := newSQLite(t)

	store := model.NewStore()
	sc, err := store.Add(model.AddShortcutParams{Name: "Example", URL: "https://example.com", Category: "Work"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.SetButtonColor("#abc"); err != nil {
		t.Fatalf("set button color: %v", err)
	}

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Shortcuts) != 1 {
		t.Fatalf("expected 1 shortcut, got %d", len(loaded.Shortcuts))
	}
	if loaded.Shortcuts[0].ID != sc.ID || loaded.Shortcuts[0].Category != "work" {
		t.Errorf("unexpected shortcut: %+v", loaded.Shortcuts[0])
	}
	if loaded.Settings.ButtonColor != "#aabbcc" {
		t.Errorf("button color = %q", loaded.Settings.ButtonColor)
	}
}

func TestSQLiteStorage_LoadEmpty(t *testing.T) {
	s := newSQLite(t)

	store, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(store.Shortcuts) != 0 {
		t.Errorf("expected no shortcuts, got %d", len(store.Shortcuts))
	}
	if len(store.Categories) != len(model.DefaultCategories) {
		t.Errorf("expected seeded categories, got %v", store.Categories)
	}
}

func TestSQLiteStorage_SaveReplaces(t *testing.T) {
	s := newSQLite(t)

	store := model.NewStore()
	sc, _ := store.Add(model.AddShortcutParams{Name: "One", URL: "one.com"})
	store.Add(model.AddShortcutParams{Name: "Two", URL: "two.com"})
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := store.Remove(sc.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Shortcuts) != 1 || loaded.Shortcuts[0].Name != "Two" {
		t.Errorf("expected only Two, got %+v", loaded.Shortcuts)
	}
}

func TestSQLiteStorage_MigratesLegacyKeys(t *testing.T) {
	s := newSQLite(t)

	legacy := map[string]string{
		"shortcuts":   `[{"id":"1","name":"Mail","url":"https://mail.example.com","category":"work"}]`,
		"categories":  `["work"]`,
		"bgColor":     "#101010",
		"buttonColor": "#202020",
	}
	for k, v := range legacy {
		if err := s.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	store, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(store.Shortcuts) != 1 || store.Shortcuts[0].Name != "Mail" {
		t.Fatalf("unexpected shortcuts: %+v", store.Shortcuts)
	}
	if store.Settings.BackgroundColor != "#101010" || store.Settings.ButtonColor != "#202020" {
		t.Errorf("settings not migrated: %+v", store.Settings)
	}

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	for k := range legacy {
		if _, ok, err := s.Get(k); err != nil || ok {
			t.Errorf("legacy key %q still present after save (err=%v)", k, err)
		}
	}
	if _, ok, _ := s.Get("state"); !ok {
		t.Error("state key missing after save")
	}
}

func TestSQLiteStorage_MigratesBrowserDump(t *testing.T) {
	s := newSQLite(t)

	dump := browserDump()
	for k, v := range dump {
		if err := s.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	store, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	assertBrowserDumpLoaded(t, store)

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	for k := range dump {
		if _, ok, err := s.Get(k); err != nil || ok {
			t.Errorf("key %q still present after save (err=%v)", k, err)
		}
	}
}

func TestSQLiteStorage_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.db")

	s, err := storage.NewSQLiteStorage(path, nil)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	store := model.NewStore()
	store.Add(model.AddShortcutParams{Name: "Persisted", URL: "persisted.dev"})
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	s.Close()

	s2, err := storage.NewSQLiteStorage(path, nil)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer s2.Close()

	loaded, err := s2.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Shortcuts) != 1 || loaded.Shortcuts[0].URL != "https://persisted.dev" {
		t.Errorf("unexpected shortcuts after reopen: %+v", loaded.Shortcuts)
	}
}
