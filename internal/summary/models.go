// Package summary generates and persists text summaries.
package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
)

const Feature = "summary"

// ErrUnrecognizedShape means the backend payload did not carry a
// summary.
var ErrUnrecognizedShape = errors.New("unrecognized summary response shape")

// Option values accepted by the backend.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"

	FormatParagraph    = "paragraph"
	FormatBulletPoints = "bullet_points"
)

// Options are the per-request generation knobs. Zero values mean the
// defaults (medium, paragraph).
type Options struct {
	Length string `json:"length"`
	Format string `json:"format"`
}

// normalize applies defaults and rejects unknown option values.
func (o *Options) normalize() error {
	if o.Length == "" {
		o.Length = LengthMedium
	}
	if o.Format == "" {
		o.Format = FormatParagraph
	}

	switch o.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		return &generation.ValidationError{
			Message: fmt.Sprintf("Summary length must be one of: %s, %s, %s.", LengthShort, LengthMedium, LengthLong),
		}
	}

	switch o.Format {
	case FormatParagraph, FormatBulletPoints:
	default:
		return &generation.ValidationError{
			Message: fmt.Sprintf("Summary format must be one of: %s, %s.", FormatParagraph, FormatBulletPoints),
		}
	}

	return nil
}

// Summary is the persisted artifact. Segments holds one entry per
// paragraph or bullet point; a plain-string backend response becomes a
// single segment.
type Summary struct {
	Title       string    `json:"title,omitempty" firestore:"title"`
	Segments    []string  `json:"summary" firestore:"summary"`
	Length      string    `json:"length" firestore:"length"`
	Format      string    `json:"format" firestore:"format"`
	Language    string    `json:"language" firestore:"language"`
	GeneratedAt time.Time `json:"generatedAt" firestore:"generatedAt"`
}

// Text joins the segments with newlines, mirroring the clipboard copy
// behavior.
func (s *Summary) Text() string {
	return strings.Join(s.Segments, "\n")
}

// ParseResponse decodes the backend payload. The summary field may be a
// single string or a list of segments.
func ParseResponse(body []byte) (title string, segments []string, err error) {
	var resp struct {
		Title   string          `json:"title"`
		Summary json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, ErrUnrecognizedShape
	}
	if len(resp.Summary) == 0 {
		return "", nil, ErrUnrecognizedShape
	}

	var single string
	if err := json.Unmarshal(resp.Summary, &single); err == nil {
		return resp.Title, []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(resp.Summary, &many); err == nil {
		return resp.Title, many, nil
	}

	return "", nil, ErrUnrecognizedShape
}
