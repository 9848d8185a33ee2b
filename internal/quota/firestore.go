package quota

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore reads and writes quota state on the user profile
// documents.
//
// Paths:
//
//	users/{userId}                 -> dailyGenerationCount, lastGenerationDate
//	users/{userId}/quizes/{quizId} -> total_submissions
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed quota store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		return nil
	}
	return &FirestoreStore{client: client}
}

// GetRecord reads the user's quota record. A missing user document is
// an error: the caller fails closed.
func (f *FirestoreStore) GetRecord(ctx context.Context, userID string) (*Record, error) {
	if f == nil || f.client == nil {
		return nil, status.Error(codes.Internal, "firestore client is nil")
	}
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "userID must be non-empty")
	}

	doc, err := f.client.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, status.Errorf(codes.NotFound, "no user document for %s", userID)
		}
		return nil, status.Errorf(codes.Internal, "failed to read quota record for user %s: %v", userID, err)
	}

	var record Record
	if err := doc.DataTo(&record); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to parse quota record for user %s: %v", userID, err)
	}

	return &record, nil
}

// SetRecord writes the new count and generation time onto the user
// document. Only the two quota fields are touched; the rest of the
// profile is left alone.
func (f *FirestoreStore) SetRecord(ctx context.Context, userID string, count int, at time.Time) error {
	if f == nil || f.client == nil {
		return status.Error(codes.Internal, "firestore client is nil")
	}
	if userID == "" {
		return status.Error(codes.InvalidArgument, "userID must be non-empty")
	}

	_, err := f.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "dailyGenerationCount", Value: count},
		{Path: "lastGenerationDate", Value: at},
	})
	if err != nil {
		return status.Errorf(codes.Internal, "failed to update quota record for user %s: %v", userID, err)
	}

	return nil
}

// GetQuizSubmissions reads the per-quiz submission counter. A quiz
// document without the field counts as zero submissions; a missing
// quiz document is an error.
func (f *FirestoreStore) GetQuizSubmissions(ctx context.Context, userID, quizID string) (int, error) {
	if f == nil || f.client == nil {
		return 0, status.Error(codes.Internal, "firestore client is nil")
	}
	if userID == "" || quizID == "" {
		return 0, status.Error(codes.InvalidArgument, "userID and quizID must be non-empty")
	}

	doc, err := f.client.Collection("users").Doc(userID).Collection("quizes").Doc(quizID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, status.Errorf(codes.NotFound, "quiz %s not found for user %s", quizID, userID)
		}
		return 0, status.Errorf(codes.Internal, "failed to read quiz %s for user %s: %v", quizID, userID, err)
	}

	var quiz struct {
		TotalSubmissions int `firestore:"total_submissions"`
	}
	if err := doc.DataTo(&quiz); err != nil {
		return 0, status.Errorf(codes.Internal, "failed to parse quiz %s for user %s: %v", quizID, userID, err)
	}

	return quiz.TotalSubmissions, nil
}
