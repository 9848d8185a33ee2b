package flashcard

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
	gate           *generation.Gate
	backend        Generator
	artifacts      artifacts.Store
	input          *input.Store
	tracker        *tracking.Service
	sampleFallback bool
	logger         *logger.Logger
}

// Result is one completed generation. ID is empty when persistence
// failed; the artifact is still returned inline.
type Result struct {
	ID       string
	Deck     *Deck
	Quota    quota.Status
	Fallback bool
}

func NewService(
	gate *generation.Gate,
	backend Generator,
	store artifacts.Store,
	inputStore *input.Store,
	tracker *tracking.Service,
	sampleFallback bool,
	log *logger.Logger,
) *Service {
	return &Service{
		gate:           gate,
		backend:        backend,
		artifacts:      store,
		input:          inputStore,
		tracker:        tracker,
		sampleFallback: sampleFallback,
		logger:         log.WithComponent("flashcard"),
	}
}

// Generate runs the full pipeline: read input context, validate, guard
// concurrency, check quota, call the backend, normalize, persist,
// consume quota. When the backend call or normalization fails and the
// sample fallback is enabled, the built-in deck is persisted instead
// and quota is still consumed.
func (s *Service) Generate(ctx context.Context, userID string) (*Result, error) {
	state := s.input.Get(userID)

	if err := s.gate.ValidateInput(state.Content); err != nil {
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

	var deck *Deck
	fallback := false

	body, err := s.backend.Generate(ctx, generator.EndpointFlashcard, generator.Request{
		Text:   state.Content,
		UserID: userID,
	})
	if err == nil {
		deck, err = Normalize(body, state.Content)
	}
	if err != nil {
		if !s.sampleFallback {
			metrics.GenerationsTotal.WithLabelValues(Feature, metrics.StatusFailed).Inc()
			s.track(userID, tracking.OutcomeFailed, err.Error())
			return nil, err
		}

		s.logger.Warn("flashcard backend unavailable, using sample deck",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		deck = SampleDeck()
		fallback = true
	}
	deck.GeneratedAt = time.Now()

	id, err := s.artifacts.Save(ctx, userID, artifacts.CollectionFlashcards, deck)
	if err != nil {
		// The user still gets the deck inline; only the redirect is lost.
		s.logger.Error("failed to persist flashcards",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		id = ""
	}

	status := s.gate.Consume(ctx, userID)

	outcome := tracking.OutcomeSuccess
	metricStatus := metrics.StatusSuccess
	if fallback {
		outcome = tracking.OutcomeFallback
		metricStatus = metrics.StatusFallback
	}
	metrics.GenerationsTotal.WithLabelValues(Feature, metricStatus).Inc()
	s.track(userID, outcome, "")

	return &Result{ID: id, Deck: deck, Quota: status, Fallback: fallback}, nil
}

// Get loads a saved deck.
func (s *Service) Get(ctx context.Context, userID, id string) (*Deck, error) {
	var deck Deck
	if err := s.artifacts.Get(ctx, userID, artifacts.CollectionFlashcards, id, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (s *Service) track(userID, outcome, detail string) {
	_ = s.tracker.Record(userID, Feature, outcome, detail)
}
