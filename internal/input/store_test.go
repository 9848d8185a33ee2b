package input

import (
	"testing"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
)

func newTestStore(t *testing.T) (*Store, *Storage) {
	t.Helper()
	log := logger.New(logger.Config{})

	storage, err := NewStorage(log, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	return NewStore(storage, "English", log), storage
}

func TestStore(t *testing.T) {
	t.Run("defaults to empty content and default language", func(t *testing.T) {
		store, _ := newTestStore(t)

		state := store.Get("user1")
		if state.Content != "" {
			t.Errorf("expected empty content, got %q", state.Content)
		}
		if state.Language != "English" {
			t.Errorf("expected default language, got %q", state.Language)
		}
	})

	t.Run("reads return the last value set", func(t *testing.T) {
		store, _ := newTestStore(t)

		store.SetContent("user1", "pasted notes")
		store.SetLanguage("user1", "Spanish")

		state := store.Get("user1")
		if state.Content != "pasted notes" {
			t.Errorf("unexpected content %q", state.Content)
		}
		if state.Language != "Spanish" {
			t.Errorf("unexpected language %q", state.Language)
		}
	})

	t.Run("restores content but resets language", func(t *testing.T) {
		log := logger.New(logger.Config{})
		dir := t.TempDir()

		storage, err := NewStorage(log, dir)
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}

		first := NewStore(storage, "English", log)
		first.SetContent("user1", "saved across restarts")
		first.SetLanguage("user1", "French")

		// A fresh store over the same directory simulates a restart.
		second := NewStore(storage, "English", log)
		state := second.Get("user1")
		if state.Content != "saved across restarts" {
			t.Errorf("expected content restored, got %q", state.Content)
		}
		if state.Language != "English" {
			t.Errorf("expected language reset to default, got %q", state.Language)
		}
	})

	t.Run("sessions are per user", func(t *testing.T) {
		store, _ := newTestStore(t)

		store.SetContent("user1", "one")
		store.SetContent("user2", "two")

		if got := store.Get("user1").Content; got != "one" {
			t.Errorf("unexpected content for user1: %q", got)
		}
		if got := store.Get("user2").Content; got != "two" {
			t.Errorf("unexpected content for user2: %q", got)
		}
	})
}

func TestPruneOlderThan(t *testing.T) {
	store, storage := newTestStore(t)

	store.SetContent("stale", "old content")
	store.SetContent("fresh", "new content")

	// Everything was just written, so a cutoff in the past removes nothing.
	removed, err := storage.PruneOlderThan(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}

	// A future cutoff removes both session files.
	removed, err = storage.PruneOlderThan(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
}
