package artifacts

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore handles Firestore operations for saved artifacts.
// Path: /users/{userId}/{collection}/{artifactId}
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed artifact store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		return nil
	}
	return &FirestoreStore{client: client}
}

func (f *FirestoreStore) Save(ctx context.Context, userID, collection string, doc interface{}) (string, error) {
	if f == nil || f.client == nil {
		return "", status.Error(codes.Internal, "firestore client is nil")
	}
	if userID == "" || collection == "" {
		return "", status.Error(codes.InvalidArgument, "userID and collection must be non-empty")
	}

	ref, _, err := f.client.Collection("users").Doc(userID).Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", status.Errorf(codes.Internal, "failed to save artifact user=%s collection=%s: %v", userID, collection, err)
	}

	return ref.ID, nil
}

func (f *FirestoreStore) Get(ctx context.Context, userID, collection, id string, out interface{}) error {
	if f == nil || f.client == nil {
		return status.Error(codes.Internal, "firestore client is nil")
	}
	if userID == "" || collection == "" || id == "" {
		return status.Error(codes.InvalidArgument, "userID, collection, and id must be non-empty")
	}

	doc, err := f.client.Collection("users").Doc(userID).Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return status.Errorf(codes.NotFound, "artifact not found: user=%s collection=%s id=%s", userID, collection, id)
		}
		return status.Errorf(codes.Internal, "failed to get artifact user=%s collection=%s id=%s: %v", userID, collection, id, err)
	}

	if err := doc.DataTo(out); err != nil {
		return status.Errorf(codes.Internal, "failed to parse artifact user=%s collection=%s id=%s: %v", userID, collection, id, err)
	}

	return nil
}

// IsNotFound reports whether the error is an artifact-not-found error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
