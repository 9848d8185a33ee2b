// Package artifacts persists generated study artifacts to the user's
// storage collections. A result only becomes permanent once it is
// written here and assigned a generated identifier.
package artifacts

import "context"

// Per-user collections holding saved artifacts.
const (
	CollectionFlashcards = "flashcards"
	CollectionFlowcharts = "flowcharts"
	CollectionSummaries  = "summaries"
)

// Store abstracts artifact persistence so feature services can be
// tested against a fake.
type Store interface {
	// Save writes the document to users/{userId}/{collection} and
	// returns the store-generated identifier.
	Save(ctx context.Context, userID, collection string, doc interface{}) (string, error)
	// Get reads users/{userId}/{collection}/{id} into out.
	Get(ctx context.Context, userID, collection, id string, out interface{}) error
}
