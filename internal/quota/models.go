package quota

import "time"

// Record is the per-user daily generation counter stored on the user's
// profile document. The counter is shared across all content features
// (flashcards, flowcharts, summaries, quizzes); rollover is detected by
// comparing calendar dates, never stored as a separate event.
type Record struct {
	DailyGenerationCount int        `firestore:"dailyGenerationCount"`
	LastGenerationDate   *time.Time `firestore:"lastGenerationDate"`
}

// Status is the result of a quota check.
type Status struct {
	CanGenerate bool `json:"can_generate"`
	Remaining   int  `json:"remaining"`
	Limit       int  `json:"limit"`
}

// QuizSubmissionStatus is the result of a per-quiz submission check.
type QuizSubmissionStatus struct {
	CanSubmit          bool `json:"can_submit"`
	Remaining          int  `json:"remaining"`
	CurrentSubmissions int  `json:"total_submissions"`
}
