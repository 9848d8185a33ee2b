package generator

import "fmt"

// Endpoint names on the generation backend.
const (
	EndpointFlashcard = "flashcard"
	EndpointFlowchart = "flowchart"
	EndpointSummarize = "summarize"
)

// Request is the JSON body sent to the generation backend. Feature
// options are optional and only set by the features that use them.
type Request struct {
	Text         string `json:"text"`
	UserID       string `json:"userId"`
	Language     string `json:"language,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Length       string `json:"length,omitempty"`
	Format       string `json:"format,omitempty"`
}

// UpstreamError is a non-2xx response from the generation backend.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("generation backend returned %d", e.StatusCode)
}
