// Package generation holds the orchestration pieces shared by the
// flashcard, flowchart and summary features: input validation, the
// per-user in-flight guard, and the quota check/consume steps that
// bracket every call to the generation backend.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
)

// ErrBusy is returned when a user already has a generation in flight.
// The server analog of the disabled generate button.
var ErrBusy = errors.New("a generation is already in progress for this user")

// ValidationError is a local input rejection. No backend call is made
// and no quota is consumed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// QuotaExhaustedError signals the daily budget is spent.
type QuotaExhaustedError struct {
	Limit int
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("daily generation limit of %d reached", e.Limit)
}

// Gate wraps the checks every generation request passes through.
type Gate struct {
	quota         *quota.Service
	minInputChars int
	inflight      sync.Map // userID -> struct{}
}

func NewGate(quotaService *quota.Service, minInputChars int) *Gate {
	return &Gate{
		quota:         quotaService,
		minInputChars: minInputChars,
	}
}

// ValidateInput rejects empty or too-short content before any network
// I/O happens.
func (g *Gate) ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) < g.minInputChars {
		return &ValidationError{
			Message: fmt.Sprintf("Please provide at least %d characters of content.", g.minInputChars),
		}
	}
	return nil
}

// Acquire marks the user as having a generation in flight. The caller
// must invoke the returned release function when the round-trip ends.
func (g *Gate) Acquire(userID string) (func(), error) {
	if _, loaded := g.inflight.LoadOrStore(userID, struct{}{}); loaded {
		return nil, ErrBusy
	}
	return func() { g.inflight.Delete(userID) }, nil
}

// CheckQuota re-verifies the daily budget immediately before the
// backend call.
func (g *Gate) CheckQuota(ctx context.Context, userID string) error {
	status := g.quota.CheckLimit(ctx, userID)
	if !status.CanGenerate {
		return &QuotaExhaustedError{Limit: status.Limit}
	}
	return nil
}

// Consume records the generation and returns the refreshed quota
// status for display. Recording failures are logged inside the quota
// service and otherwise swallowed (fail-silent).
func (g *Gate) Consume(ctx context.Context, userID string) quota.Status {
	g.quota.RecordGeneration(ctx, userID)
	return g.quota.CheckLimit(ctx, userID)
}

// Limit exposes the configured daily cap for user-facing messages.
func (g *Gate) Limit() int {
	return g.quota.Limit()
}
