package flashcard

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CSV renders the deck as a two-column CSV. Every field is quoted and
// embedded quotes are doubled, so a question `A "B"` becomes `"A ""B"""`.
// encoding/csv only quotes fields that need it, which breaks consumers
// expecting the historical always-quoted output, so the quoting is done
// by hand.
func CSV(cards []Flashcard) []byte {
	var b strings.Builder
	b.WriteString(`"Question","Answer"`)
	for _, card := range cards {
		b.WriteByte('\n')
		b.WriteString(quoteField(card.Question))
		b.WriteByte(',')
		b.WriteString(quoteField(card.Answer))
	}
	return []byte(b.String())
}

func quoteField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ExportFilename derives the download name from the deck title:
// whitespace runs become underscores, lowercased.
func ExportFilename(title string) string {
	name := strings.ToLower(whitespaceRe.ReplaceAllString(title, "_"))
	if name == "" {
		name = "flashcards"
	}
	return name + ".csv"
}
