// Package tracking writes an async audit log of generation attempts to
// Postgres. Logging never blocks or fails a user request: events are
// queued to a worker pool and dropped with a counter when the queue is
// full.
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/google/uuid"
)

// Event outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Event is one generation attempt.
type Event struct {
	ID        string
	UserID    string
	Feature   string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// Storage persists events. Implemented by the Postgres layer.
type Storage interface {
	InsertGenerationLog(ctx context.Context, event *Event) error
}

type Service struct {
	storage       Storage
	logChan       chan *Event
	workerPool    sync.WaitGroup
	shutdown      chan struct{}
	closed        atomic.Bool
	timeout       time.Duration
	logger        *logger.Logger
	droppedEvents atomic.Int64
	bufferSize    int
}

func NewService(storage Storage, log *logger.Logger, workers, bufferSize int, timeout time.Duration) *Service {
	s := &Service{
		storage:    storage,
		logChan:    make(chan *Event, bufferSize),
		shutdown:   make(chan struct{}),
		timeout:    timeout,
		logger:     log.WithComponent("tracking"),
		bufferSize: bufferSize,
	}

	for i := 0; i < workers; i++ {
		s.workerPool.Add(1)
		go s.worker()
	}

	return s
}

// worker processes events from the channel until shutdown, then drains
// whatever is still queued.
func (s *Service) worker() {
	defer s.workerPool.Done()

	for {
		select {
		case event := <-s.logChan:
			s.handleEvent(event)
		case <-s.shutdown:
			for {
				select {
				case event := <-s.logChan:
					s.handleEvent(event)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) handleEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.storage.InsertGenerationLog(ctx, event); err != nil {
		s.logger.Error("failed to insert generation log",
			slog.String("user_id", event.UserID),
			slog.String("feature", event.Feature),
			slog.String("outcome", event.Outcome),
			slog.String("error", err.Error()))
	}
}

// Record queues a generation event. It never blocks: a full queue drops
// the event and bumps a counter.
func (s *Service) Record(userID, feature, outcome, detail string) error {
	if s == nil || s.storage == nil {
		return nil
	}

	if s.closed.Load() {
		s.logger.Warn("tracking service is shutting down, dropping event",
			slog.String("user_id", userID),
			slog.String("feature", feature))
		return fmt.Errorf("service shutting down")
	}

	event := &Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Feature:   feature,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	select {
	case s.logChan <- event:
		return nil
	default:
		dropped := s.droppedEvents.Add(1)
		s.logger.Error("generation log queue full, dropping event",
			slog.String("user_id", userID),
			slog.String("feature", feature),
			slog.Int64("total_dropped", dropped),
			slog.Int("queue_size", s.bufferSize))
		return fmt.Errorf("log queue is full, dropping event")
	}
}

// Shutdown stops accepting events and waits for the workers to drain
// the queue.
func (s *Service) Shutdown() {
	if s == nil {
		return
	}
	s.closed.Store(true)

	close(s.shutdown)
	s.workerPool.Wait()
	close(s.logChan)
}

// Metrics returns diagnostic counters for the tracking queue.
func (s *Service) Metrics() map[string]int64 {
	return map[string]int64{
		"dropped_events_total": s.droppedEvents.Load(),
		"queue_size":           int64(len(s.logChan)),
		"queue_capacity":       int64(s.bufferSize),
	}
}
