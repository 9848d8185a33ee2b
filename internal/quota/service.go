package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
)

// Store abstracts the user quota documents so the service can be tested
// against a fake and swapped for a transactional implementation later.
type Store interface {
	GetRecord(ctx context.Context, userID string) (*Record, error)
	SetRecord(ctx context.Context, userID string, count int, at time.Time) error
	GetQuizSubmissions(ctx context.Context, userID, quizID string) (int, error)
}

// Service gates and meters the global per-user daily generation budget.
type Service struct {
	store     Store
	limit     int
	quizLimit int
	logger    *logger.Logger
}

func NewService(store Store, dailyLimit, quizSubmissionLimit int, logger *logger.Logger) *Service {
	return &Service{
		store:     store,
		limit:     dailyLimit,
		quizLimit: quizSubmissionLimit,
		logger:    logger.WithComponent("quota"),
	}
}

// Limit returns the configured daily generation cap.
func (s *Service) Limit() int {
	return s.limit
}

// dateString formats a point in time as a local calendar date. Rollover
// compares these strings, not a fixed 24h window.
func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// isNewDay reports whether the last generation happened on a calendar
// day before today. A missing date counts as a new day.
func isNewDay(last *time.Time) bool {
	if last == nil {
		return true
	}
	return dateString(*last) != dateString(time.Now())
}

// CheckLimit reports whether the user may generate and how many
// generations remain today. It fails closed: an unreadable or missing
// record blocks generation.
func (s *Service) CheckLimit(ctx context.Context, userID string) Status {
	record, err := s.store.GetRecord(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read quota record, denying generation",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return Status{CanGenerate: false, Remaining: 0, Limit: s.limit}
	}

	return s.statusFromRecord(record)
}

// CheckLimitForDisplay is the status-endpoint variant: a read failure
// shows a full budget and allows generation rather than blocking. Only
// the display is fail-open; the enforcing check before a generation
// stays fail-closed.
func (s *Service) CheckLimitForDisplay(ctx context.Context, userID string) Status {
	record, err := s.store.GetRecord(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read quota record for display, assuming full budget",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return Status{CanGenerate: true, Remaining: s.limit, Limit: s.limit}
	}

	return s.statusFromRecord(record)
}

func (s *Service) statusFromRecord(record *Record) Status {
	if isNewDay(record.LastGenerationDate) {
		return Status{CanGenerate: true, Remaining: s.limit, Limit: s.limit}
	}

	count := record.DailyGenerationCount
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		CanGenerate: count < s.limit,
		Remaining:   remaining,
		Limit:       s.limit,
	}
}

// RecordGeneration consumes one unit of the daily budget. A rollover
// resets the count to 1 for today; otherwise the stored count is
// incremented. The read-then-write is deliberately untransactional:
// concurrent generations for the same user can lose an update. That
// matches the metering contract, which favors availability over strict
// accuracy.
func (s *Service) RecordGeneration(ctx context.Context, userID string) bool {
	record, err := s.store.GetRecord(ctx, userID)
	if err != nil {
		s.logger.Error("failed to read quota record for update",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return false
	}

	newCount := 1
	if !isNewDay(record.LastGenerationDate) {
		newCount = record.DailyGenerationCount + 1
	}

	if err := s.store.SetRecord(ctx, userID, newCount, time.Now()); err != nil {
		s.logger.Error("failed to update quota record",
			slog.String("user_id", userID),
			slog.Int("new_count", newCount),
			slog.String("error", err.Error()))
		return false
	}

	return true
}

// CheckQuizSubmissions reports whether the user may submit answers to a
// quiz again. Fails closed like CheckLimit.
func (s *Service) CheckQuizSubmissions(ctx context.Context, userID, quizID string) QuizSubmissionStatus {
	current, err := s.store.GetQuizSubmissions(ctx, userID, quizID)
	if err != nil {
		s.logger.Warn("failed to read quiz submissions, denying submission",
			slog.String("user_id", userID),
			slog.String("quiz_id", quizID),
			slog.String("error", err.Error()))
		return QuizSubmissionStatus{CanSubmit: false, Remaining: 0, CurrentSubmissions: 0}
	}

	remaining := s.quizLimit - current
	if remaining < 0 {
		remaining = 0
	}

	return QuizSubmissionStatus{
		CanSubmit:          current < s.quizLimit,
		Remaining:          remaining,
		CurrentSubmissions: current,
	}
}
