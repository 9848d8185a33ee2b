package input

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
)

// Storage persists input sessions as one JSON file per user so a
// restart does not lose pasted content.
type Storage struct {
	logger      *logger.Logger
	storagePath string
}

// persistedSession is the on-disk shape. Language is stored but never
// restored: it resets to the default on every load.
type persistedSession struct {
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStorage creates a new storage instance.
func NewStorage(logger *logger.Logger, storagePath string) (*Storage, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create input session directory: %w", err)
	}

	return &Storage{
		logger:      logger.WithComponent("input-storage"),
		storagePath: storagePath,
	}, nil
}

func (s *Storage) sessionFilePath(userID string) string {
	filename := fmt.Sprintf("session_%s.json", sanitizeUserID(userID))
	return filepath.Join(s.storagePath, filename)
}

// sanitizeUserID keeps user IDs filesystem-safe.
func sanitizeUserID(userID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, userID)
}

// Load reads a persisted session. A missing file is not an error; it
// returns nil so the caller starts fresh.
func (s *Storage) Load(userID string) (*persistedSession, error) {
	data, err := os.ReadFile(s.sessionFilePath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read input session: %w", err)
	}

	var session persistedSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input session: %w", err)
	}

	return &session, nil
}

// Save writes the session to disk.
func (s *Storage) Save(session *persistedSession) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal input session: %w", err)
	}

	if err := os.WriteFile(s.sessionFilePath(session.UserID), data, 0644); err != nil {
		return fmt.Errorf("failed to write input session: %w", err)
	}

	return nil
}

// PruneOlderThan removes session files whose last modification is
// before the cutoff. Returns the number of files removed. Run by the
// daily janitor.
func (s *Storage) PruneOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.storagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to list input sessions: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "session_") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.storagePath, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn("failed to remove stale input session",
					slog.String("file", entry.Name()),
					slog.String("error", err.Error()))
				continue
			}
			removed++
		}
	}

	return removed, nil
}
