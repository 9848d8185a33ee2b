package flashcard

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("corrects the misspelled question key", func(t *testing.T) {
		body := []byte(`{"title":"T","flashcards":[{"quetion":"Q","answer":"A"}]}`)

		deck, err := Normalize(body, "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if len(deck.Flashcards) != 1 {
			t.Fatalf("expected 1 card, got %d", len(deck.Flashcards))
		}
		if deck.Flashcards[0].Question != "Q" || deck.Flashcards[0].Answer != "A" {
			t.Errorf("unexpected card %+v", deck.Flashcards[0])
		}
	})

	t.Run("prefers the correctly spelled key", func(t *testing.T) {
		body := []byte(`{"flashcards":[{"question":"right","quetion":"wrong","answer":"A"}]}`)

		deck, err := Normalize(body, "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Flashcards[0].Question != "right" {
			t.Errorf("expected the correct spelling to win, got %q", deck.Flashcards[0].Question)
		}
	})

	t.Run("fills missing fields with placeholders", func(t *testing.T) {
		body := []byte(`{"flashcards":[{}]}`)

		deck, err := Normalize(body, "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Flashcards[0].Question != "No question available" {
			t.Errorf("unexpected question %q", deck.Flashcards[0].Question)
		}
		if deck.Flashcards[0].Answer != "No answer available" {
			t.Errorf("unexpected answer %q", deck.Flashcards[0].Answer)
		}
	})

	t.Run("replaces a single generic card with content slices", func(t *testing.T) {
		input := strings.Repeat("x", 1200)
		body := []byte(`{"title":"T","flashcards":[{"question":"These are the main topics covered","answer":"A"}]}`)

		deck, err := Normalize(body, input)
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Title != "T" {
			t.Errorf("unexpected title %q", deck.Title)
		}
		if len(deck.Flashcards) != 2 {
			t.Fatalf("expected 2 content-derived cards, got %d", len(deck.Flashcards))
		}
		if deck.Flashcards[0].Answer != input[:500]+"..." {
			t.Error("first card should carry the first 500 characters")
		}
		if deck.Flashcards[1].Answer != input[500:1000]+"..." {
			t.Error("second card should carry characters 500-1000")
		}
	})

	t.Run("generic marker in the answer also triggers the fallback", func(t *testing.T) {
		input := strings.Repeat("y", 300)
		body := []byte(`{"flashcards":[{"question":"Q","answer":"The text contains information that can be studied"}]}`)

		deck, err := Normalize(body, input)
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Title != "Content Summary" {
			t.Errorf("expected default title, got %q", deck.Title)
		}
		// 300 characters fit entirely in the first slice; the second
		// slice is empty and gets dropped.
		if len(deck.Flashcards) != 1 {
			t.Fatalf("expected 1 card, got %d", len(deck.Flashcards))
		}
		if deck.Flashcards[0].Answer != input {
			t.Error("first card should carry the whole input without an ellipsis")
		}
	})

	t.Run("generic marker with multiple cards passes through", func(t *testing.T) {
		body := []byte(`{"flashcards":[{"question":"main topics covered","answer":"A"},{"question":"Q2","answer":"A2"}]}`)

		deck, err := Normalize(body, "input")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if len(deck.Flashcards) != 2 {
			t.Fatalf("expected the backend cards untouched, got %d", len(deck.Flashcards))
		}
	})

	t.Run("coerces a bare string payload", func(t *testing.T) {
		deck, err := Normalize([]byte(`"just a summary"`), "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Title != "Generated Summary" {
			t.Errorf("unexpected title %q", deck.Title)
		}
		if len(deck.Flashcards) != 1 || deck.Flashcards[0].Answer != "just a summary" {
			t.Errorf("unexpected cards %+v", deck.Flashcards)
		}
	})

	t.Run("coerces a singular flashcard field", func(t *testing.T) {
		deck, err := Normalize([]byte(`{"title":"T","flashcard":"one card"}`), "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if deck.Title != "T" {
			t.Errorf("unexpected title %q", deck.Title)
		}
		if len(deck.Flashcards) != 1 || deck.Flashcards[0].Answer != "one card" {
			t.Errorf("unexpected cards %+v", deck.Flashcards)
		}
	})

	t.Run("rejects unrecognizable shapes", func(t *testing.T) {
		for _, body := range []string{`{"title":"only"}`, `[1,2,3]`, `42`, `not json`} {
			if _, err := Normalize([]byte(body), ""); err == nil {
				t.Errorf("expected an error for %q", body)
			}
		}
	})

	t.Run("empty flashcards array stays empty", func(t *testing.T) {
		deck, err := Normalize([]byte(`{"title":"T","flashcards":[]}`), "")
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if len(deck.Flashcards) != 0 {
			t.Errorf("expected no cards, got %d", len(deck.Flashcards))
		}
	})
}
