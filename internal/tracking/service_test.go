package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
)

type mockStorage struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (m *mockStorage) InsertGenerationLog(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestRecordAndShutdownDrainsQueue(t *testing.T) {
	storage := &mockStorage{}
	svc := NewService(storage, logger.New(logger.Config{}), 2, 100, time.Second)

	for i := 0; i < 10; i++ {
		if err := svc.Record("user1", "flashcard", OutcomeSuccess, ""); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	svc.Shutdown()

	if got := storage.count(); got != 10 {
		t.Errorf("expected 10 events persisted, got %d", got)
	}
}

func TestRecordPopulatesEvent(t *testing.T) {
	storage := &mockStorage{}
	svc := NewService(storage, logger.New(logger.Config{}), 1, 10, time.Second)

	if err := svc.Record("user1", "summary", OutcomeFailed, "backend unreachable"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	svc.Shutdown()

	if storage.count() != 1 {
		t.Fatalf("expected 1 event, got %d", storage.count())
	}

	event := storage.events[0]
	if event.ID == "" {
		t.Error("expected generated event ID")
	}
	if event.Feature != "summary" || event.Outcome != OutcomeFailed {
		t.Errorf("unexpected event %+v", event)
	}
	if event.Detail != "backend unreachable" {
		t.Errorf("unexpected detail %q", event.Detail)
	}
	if event.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestRecordAfterShutdownIsRefused(t *testing.T) {
	storage := &mockStorage{}
	svc := NewService(storage, logger.New(logger.Config{}), 1, 10, time.Second)
	svc.Shutdown()

	if err := svc.Record("user1", "flowchart", OutcomeSuccess, ""); err == nil {
		t.Error("expected an error after shutdown")
	}
}

func TestStorageErrorsDoNotPropagate(t *testing.T) {
	storage := &mockStorage{err: errors.New("insert failed")}
	svc := NewService(storage, logger.New(logger.Config{}), 1, 10, time.Second)

	if err := svc.Record("user1", "flashcard", OutcomeSuccess, ""); err != nil {
		t.Fatalf("record should queue despite storage errors: %v", err)
	}
	svc.Shutdown()
}
