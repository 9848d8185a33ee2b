package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/artifacts"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generator"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/input"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/metrics"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/tracking"
)

// Generator is the slice of the backend client this service needs.
type Generator interface {
	Generate(ctx context.Context, endpoint string, req generator.Request) ([]byte, error)
}

type Service struct {
	gate      *generation.Gate
	backend   Generator
	artifacts artifacts.Store
	input     *input.Store
	tracker   *tracking.Service
	logger    *logger.Logger
}

// Result is one completed generation. ID is empty when persistence
// failed; the artifact is still returned inline.
type Result struct {
	ID      string
	Summary *Summary
	Quota   quota.Status
}

func NewService(
	gate *generation.Gate,
	backend Generator,
	store artifacts.Store,
	inputStore *input.Store,
	tracker *tracking.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		gate:      gate,
		backend:   backend,
		artifacts: store,
		input:     inputStore,
		tracker:   tracker,
		logger:    log.WithComponent("summary"),
	}
}

// Generate runs the pipeline. Backend and shape failures surface to the
// caller; there is no fallback.
func (s *Service) Generate(ctx context.Context, userID string, opts Options) (*Result, error) {
	state := s.input.Get(userID)

	if err := s.gate.ValidateInput(state.Content); err != nil {
		metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusRejected).Inc()
		s.track(userID, tracking.OutcomeRejected, err.Error())
		return nil, err
	}

	if err := opts.normalize(); err != nil {
		metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusRejected).Inc()
		s.track(userID, tracking.OutcomeRejected, err.Error())
		return nil, err
	}

	release, err := s.gate.Acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.gate.CheckQuota(ctx, userID); err != nil {
		metrics.QuotaRejectionsTotal.WithLabelValues(Feature).Inc()
		s.track(userID, tracking.OutcomeRejected, err.Error())
		return nil, err
	}

	body, err := s.backend.Generate(ctx, generator.EndpointSummarize, generator.Request{
		Text:     state.Content,
		UserID:   userID,
		Language: state.Language,
		Length:   opts.Length,
		Format:   opts.Format,
	})
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusFailed).Inc()
		s.track(userID, tracking.OutcomeFailed, err.Error())
		return nil, err
	}

	title, segments, err := ParseResponse(body)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusFailed).Inc()
		s.track(userID, tracking.OutcomeFailed, err.Error())
		return nil, err
	}

	artifact := &Summary{
		Title:       title,
		Segments:    segments,
		Length:      opts.Length,
		Format:      opts.Format,
		Language:    state.Language,
		GeneratedAt: time.Now(),
	}

	id, err := s.artifacts.Save(ctx, userID, artifacts.CollectionSummaries, artifact)
	if err != nil {
		s.logger.Error("failed to persist summary",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		id = ""
	}

	status := s.gate.Consume(ctx, userID)

	metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusSuccess).Inc()
	s.track(userID, tracking.OutcomeSuccess, "")

	return &Result{ID: id, Summary: artifact, Quota: status}, nil
}

// Get loads a saved summary.
func (s *Service) Get(ctx context.Context, userID, id string) (*Summary, error) {
	var artifact Summary
	if err := s.artifacts.Get(ctx, userID, artifacts.CollectionSummaries, id, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (s *Service) track(userID, outcome, detail string) {
	_ = s.tracker.Record(userID, Feature, outcome, detail)
}
