// Package input holds the shared input context: the text a user
// intends to transform and their selected output language, shared
// across all generation features so switching features does not lose
// content.
package input

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
)

// State is a snapshot of one user's input context.
type State struct {
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Store is the single source of truth for input state. Reads return
// the last value set; writes update memory and mirror to persistent
// storage synchronously. No validation happens here — length and
// emptiness checks belong to the generation features.
type Store struct {
	mu              sync.RWMutex
	sessions        map[string]*State
	storage         *Storage
	defaultLanguage string
	logger          *logger.Logger
}

func NewStore(storage *Storage, defaultLanguage string, logger *logger.Logger) *Store {
	return &Store{
		sessions:        make(map[string]*State),
		storage:         storage,
		defaultLanguage: defaultLanguage,
		logger:          logger.WithComponent("input"),
	}
}

// Get returns the user's input state, restoring persisted content on
// first access. Language deliberately resets to the default on restore
// regardless of what was saved.
func (s *Store) Get(userID string) State {
	s.mu.RLock()
	if state, ok := s.sessions[userID]; ok {
		defer s.mu.RUnlock()
		return *state
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock.
	if state, ok := s.sessions[userID]; ok {
		return *state
	}

	state := &State{Language: s.defaultLanguage}
	if s.storage != nil {
		persisted, err := s.storage.Load(userID)
		if err != nil {
			s.logger.Warn("failed to restore input session",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		} else if persisted != nil {
			state.Content = persisted.Content
		}
	}

	s.sessions[userID] = state
	return *state
}

// SetContent updates the input content and mirrors it to storage.
func (s *Store) SetContent(userID, content string) State {
	return s.update(userID, func(state *State) {
		state.Content = content
	})
}

// SetLanguage updates the selected output language and mirrors it to
// storage.
func (s *Store) SetLanguage(userID, language string) State {
	return s.update(userID, func(state *State) {
		state.Language = language
	})
}

func (s *Store) update(userID string, mutate func(*State)) State {
	// Ensure restored state exists before mutating.
	s.Get(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.sessions[userID]
	mutate(state)

	if s.storage != nil {
		err := s.storage.Save(&persistedSession{
			UserID:    userID,
			Content:   state.Content,
			Language:  state.Language,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			s.logger.Warn("failed to persist input session",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
	}

	return *state
}
