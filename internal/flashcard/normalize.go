package flashcard

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnrecognizedShape means the backend payload matched none of the
// known flashcard response shapes.
var ErrUnrecognizedShape = errors.New("unrecognized flashcard response shape")

// rawCard tolerates the backend's recurring "quetion" misspelling.
type rawCard struct {
	Question string `json:"question"`
	Quetion  string `json:"quetion"`
	Answer   string `json:"answer"`
}

type rawResponse struct {
	Title      string    `json:"title"`
	Flashcards []rawCard `json:"flashcards"`
	Flashcard  string    `json:"flashcard"`
}

// Markers of the backend's placeholder output. A single card carrying
// one of these is worthless, so it gets replaced with cards sliced from
// the user's own text.
const (
	genericQuestionMarker = "main topics covered"
	genericAnswerMarker   = "text contains information that can be studied"
)

// Normalize coerces whatever the backend returned into a Deck. The
// backend is not trusted to return a fixed shape; matchers are tried in
// order:
//
//  1. {flashcards: [...]} with the quetion alias and placeholder
//     detection,
//  2. a bare JSON string,
//  3. {flashcard: "..."},
//
// anything else is ErrUnrecognizedShape. inputText feeds the
// content-derived replacement when the backend response is judged
// generic.
func Normalize(body []byte, inputText string) (*Deck, error) {
	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		var text string
		if err := json.Unmarshal(body, &text); err == nil {
			return &Deck{
				Title:      "Generated Summary",
				Flashcards: []Flashcard{{Question: "Content Summary", Answer: text}},
			}, nil
		}
		return nil, ErrUnrecognizedShape
	}

	if resp.Flashcards != nil {
		cards := make([]Flashcard, 0, len(resp.Flashcards))
		for _, raw := range resp.Flashcards {
			question := raw.Question
			if question == "" {
				question = raw.Quetion
			}
			if question == "" {
				question = "No question available"
			}
			answer := raw.Answer
			if answer == "" {
				answer = "No answer available"
			}
			cards = append(cards, Flashcard{Question: question, Answer: answer})
		}

		if len(cards) == 1 && isGeneric(cards) {
			title := resp.Title
			if title == "" {
				title = "Content Summary"
			}
			return &Deck{Title: title, Flashcards: contentCards(inputText)}, nil
		}

		return &Deck{Title: resp.Title, Flashcards: cards}, nil
	}

	if resp.Flashcard != "" {
		title := resp.Title
		if title == "" {
			title = "Generated Summary"
		}
		return &Deck{
			Title:      title,
			Flashcards: []Flashcard{{Question: "Content Summary", Answer: resp.Flashcard}},
		}, nil
	}

	return nil, ErrUnrecognizedShape
}

func isGeneric(cards []Flashcard) bool {
	for _, card := range cards {
		if strings.Contains(card.Question, genericQuestionMarker) ||
			strings.Contains(card.Answer, genericAnswerMarker) {
			return true
		}
	}
	return false
}

// contentCards fabricates two cards from slices of the input text: the
// first 500 characters and the next span after them. Cards whose answer
// slice came up empty are dropped.
func contentCards(inputText string) []Flashcard {
	runes := []rune(inputText)

	cut := len(runes)
	if cut > 500 {
		cut = 500
	}
	summary := string(runes[:cut])

	first := summary
	if len(runes) > 500 {
		first += "..."
	}

	var second string
	if len(runes) > 1000 {
		second = string(runes[500:1000]) + "..."
	} else {
		second = string(runes[cut:])
	}

	candidates := []Flashcard{
		{Question: "What is the main content about?", Answer: first},
		{Question: "Key information from the text", Answer: second},
	}

	cards := make([]Flashcard, 0, len(candidates))
	for _, card := range candidates {
		if strings.TrimSpace(card.Answer) != "" {
			cards = append(cards, card)
		}
	}
	return cards
}
