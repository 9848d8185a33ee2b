// Package flashcard generates, normalizes, persists and exports
// question/answer study decks.
package flashcard

import "time"

const Feature = "flashcard"

// Flashcard is one question/answer pair.
type Flashcard struct {
	Question string `json:"question" firestore:"question"`
	Answer   string `json:"answer" firestore:"answer"`
}

// Deck is the persisted artifact.
type Deck struct {
	Title       string      `json:"title" firestore:"title"`
	Flashcards  []Flashcard `json:"flashcards" firestore:"flashcards"`
	GeneratedAt time.Time   `json:"generatedAt" firestore:"generatedAt"`
}
