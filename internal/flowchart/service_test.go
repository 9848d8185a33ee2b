package flowchart

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generator"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/input"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
)

type fakeQuotaStore struct {
	count    int
	last     *time.Time
	setCalls int
}

func (f *fakeQuotaStore) GetRecord(_ context.Context, _ string) (*quota.Record, error) {
	return &quota.Record{DailyGenerationCount: f.count, LastGenerationDate: f.last}, nil
}

func (f *fakeQuotaStore) SetRecord(_ context.Context, _ string, count int, at time.Time) error {
	f.setCalls++
	f.count = count
	t := at
	f.last = &t
	return nil
}

func (f *fakeQuotaStore) GetQuizSubmissions(_ context.Context, _, _ string) (int, error) {
	return 0, nil
}

type fakeBackend struct {
	body    []byte
	err     error
	calls   int
	lastReq generator.Request
}

func (f *fakeBackend) Generate(_ context.Context, _ string, req generator.Request) ([]byte, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type fakeArtifactStore struct {
	saved   *Chart
	saveErr error
}

func (f *fakeArtifactStore) Save(_ context.Context, _, _ string, doc interface{}) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = doc.(*Chart)
	return "chart-id", nil
}

func (f *fakeArtifactStore) Get(_ context.Context, _, _, _ string, out interface{}) error {
	if f.saved == nil {
		return errors.New("not found")
	}
	*(out.(*Chart)) = *f.saved
	return nil
}

type serviceFixture struct {
	service *Service
	quota   *fakeQuotaStore
	backend *fakeBackend
	store   *fakeArtifactStore
	input   *input.Store
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	log := logger.New(logger.Config{})

	quotaStore := &fakeQuotaStore{}
	gate := generation.NewGate(quota.NewService(quotaStore, 10, 5, log), 100)
	backend := &fakeBackend{body: []byte(`{"title":"T","flowchart":{"nodes":[{"label":"A"}]}}`)}
	store := &fakeArtifactStore{}
	inputStore := input.NewStore(nil, "English", log)

	return &serviceFixture{
		service: NewService(gate, backend, store, inputStore, nil, log),
		quota:   quotaStore,
		backend: backend,
		store:   store,
		input:   inputStore,
	}
}

func validInput() string {
	return strings.Repeat("a", 150)
}

func TestGenerate(t *testing.T) {
	t.Run("forwards language and instructions to the backend", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.input.SetLanguage("user1", "Spanish")

		result, err := f.service.Generate(context.Background(), "user1", Options{Instructions: "  focus on steps  "})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if f.backend.lastReq.Language != "Spanish" {
			t.Errorf("unexpected language %q", f.backend.lastReq.Language)
		}
		if f.backend.lastReq.Instructions != "focus on steps" {
			t.Errorf("instructions should be trimmed, got %q", f.backend.lastReq.Instructions)
		}
		if result.ID != "chart-id" {
			t.Errorf("unexpected ID %q", result.ID)
		}
		if f.quota.setCalls != 1 {
			t.Errorf("expected 1 quota write, got %d", f.quota.setCalls)
		}
	})

	t.Run("rejects overlong instructions", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())

		_, err := f.service.Generate(context.Background(), "user1", Options{
			Instructions: strings.Repeat("x", 501),
		})
		var validationErr *generation.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if f.backend.calls != 0 {
			t.Error("backend must not be called")
		}
	})

	t.Run("backend errors surface without persistence or metering", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.backend.err = &generator.UpstreamError{StatusCode: 500, Detail: "model overloaded"}

		_, err := f.service.Generate(context.Background(), "user1", Options{})
		var upstreamErr *generator.UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("expected the upstream error, got %v", err)
		}
		if upstreamErr.Detail != "model overloaded" {
			t.Errorf("detail lost: %q", upstreamErr.Detail)
		}
		if f.store.saved != nil {
			t.Error("nothing should be persisted")
		}
		if f.quota.setCalls != 0 {
			t.Error("no quota should be consumed")
		}
	})

	t.Run("shape errors surface instead of falling back", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.backend.body = []byte(`{"title":"no nodes"}`)

		if _, err := f.service.Generate(context.Background(), "user1", Options{}); !errors.Is(err, ErrUnrecognizedShape) {
			t.Fatalf("expected ErrUnrecognizedShape, got %v", err)
		}
		if f.quota.setCalls != 0 {
			t.Error("no quota should be consumed")
		}
	})

	t.Run("persistence failure keeps the inline chart without an ID", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.store.saveErr = errors.New("firestore down")

		result, err := f.service.Generate(context.Background(), "user1", Options{})
		if err != nil {
			t.Fatalf("persistence failures must not fail the request: %v", err)
		}
		if result.ID != "" {
			t.Errorf("expected no ID, got %q", result.ID)
		}
		if f.quota.setCalls != 1 {
			t.Error("quota is still consumed")
		}
	})

	t.Run("exhausted quota blocks the backend call", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		now := time.Now()
		f.quota.count = 10
		f.quota.last = &now

		_, err := f.service.Generate(context.Background(), "user1", Options{})
		var quotaErr *generation.QuotaExhaustedError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("expected a quota error, got %v", err)
		}
		if f.backend.calls != 0 {
			t.Error("backend must not be called when quota is spent")
		}
	})
}
