package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	var name string
	err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='settings'").Scan(&name)
	if err != nil {
		t.Fatalf("settings table missing: %v", err)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Settings().Set(KeySpeechLang, "fr-FR"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err := s.Settings().Get(KeySpeechLang)
	if err != nil || got != "fr-FR" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestSettingsRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	t.Run("missing key", func(t *testing.T) {
		if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and overwrite", func(t *testing.T) {
		if err := repo.Set(KeySpeechRate, "1"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := repo.Set(KeySpeechRate, "1.5"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := repo.Get(KeySpeechRate)
		if err != nil || got != "1.5" {
			t.Errorf("Get() = %q, %v", got, err)
		}
	})

	t.Run("set all and list", func(t *testing.T) {
		err := repo.SetAll(map[string]string{
			KeySpeechLang:   "en-GB",
			KeySpeechNotify: "true",
		})
		if err != nil {
			t.Fatalf("SetAll() error = %v", err)
		}

		all, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 || all[KeySpeechLang] != "en-GB" || all[KeySpeechRate] != "1.5" {
			t.Errorf("List() = %v", all)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(KeySpeechNotify); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(KeySpeechNotify); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() = %v, want ErrNotFound", err)
		}
	})
}
