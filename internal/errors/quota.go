package errors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// QuotaError represents a standardized 429 Too Many Requests response
// for the shared daily generation budget. All generation features
// (flashcards, flowcharts, summaries, quizzes) draw from the same
// per-user counter, so the error shape is feature-agnostic.
type QuotaError struct {
	Error     string    `json:"error"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

// AbortWithQuotaExceeded sends a 429 response with the QuotaError and aborts the request.
func AbortWithQuotaExceeded(c *gin.Context, err *QuotaError) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, err)
}

// DailyGenerationLimitExceeded creates a QuotaError for daily budget exhaustion.
// The message names the cap so clients can display it verbatim.
func DailyGenerationLimitExceeded(limit int) *QuotaError {
	return &QuotaError{
		Error:     fmt.Sprintf("Daily generation limit reached. You can create %d items per day across all features.", limit),
		Limit:     limit,
		Remaining: 0,
		ResetsAt:  nextLocalMidnight(time.Now()),
	}
}

// nextLocalMidnight returns the start of the next local calendar day.
// The quota rolls over on local calendar dates, not a fixed 24h window.
func nextLocalMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
