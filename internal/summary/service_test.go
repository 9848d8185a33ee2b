package summary

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
	saved   *Summary
	saveErr error
}

func (f *fakeArtifactStore) Save(_ context.Context, _, _ string, doc interface{}) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = doc.(*Summary)
	return "summary-id", nil
}

func (f *fakeArtifactStore) Get(_ context.Context, _, _, _ string, out interface{}) error {
	if f.saved == nil {
		return errors.New("not found")
	}
	*(out.(*Summary)) = *f.saved
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
	backend := &fakeBackend{body: []byte(`{"title":"T","summary":"a short summary"}`)}
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
	t.Run("applies option defaults and forwards them", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())

		result, err := f.service.Generate(context.Background(), "user1", Options{})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if f.backend.lastReq.Length != "medium" || f.backend.lastReq.Format != "paragraph" {
			t.Errorf("unexpected options %+v", f.backend.lastReq)
		}
		if f.backend.lastReq.Language != "English" {
			t.Errorf("unexpected language %q", f.backend.lastReq.Language)
		}
		if result.ID != "summary-id" {
			t.Errorf("unexpected ID %q", result.ID)
		}
		if got := result.Summary.Text(); got != "a short summary" {
			t.Errorf("unexpected text %q", got)
		}
		if f.quota.setCalls != 1 {
			t.Errorf("expected 1 quota write, got %d", f.quota.setCalls)
		}
	})

	t.Run("rejects unknown option values", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())

		for _, opts := range []Options{{Length: "gigantic"}, {Format: "haiku"}} {
			_, err := f.service.Generate(context.Background(), "user1", opts)
			var validationErr *generation.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected a validation error for %+v, got %v", opts, err)
			}
		}
		if f.backend.calls != 0 {
			t.Error("backend must not be called")
		}
	})

	t.Run("list summaries keep their segments", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.backend.body = []byte(`{"summary":["point one","point two"]}`)

		result, err := f.service.Generate(context.Background(), "user1", Options{Format: FormatBulletPoints})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(result.Summary.Segments) != 2 {
			t.Fatalf("expected 2 segments, got %d", len(result.Summary.Segments))
		}
		if got := result.Summary.Text(); got != "point one\npoint two" {
			t.Errorf("unexpected text %q", got)
		}
	})

	t.Run("backend errors surface without persistence or metering", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.backend.err = &generator.UpstreamError{StatusCode: 503, Detail: "try later"}

		_, err := f.service.Generate(context.Background(), "user1", Options{})
		var upstreamErr *generator.UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("expected the upstream error, got %v", err)
		}
		if f.store.saved != nil {
			t.Error("nothing should be persisted")
		}
		if f.quota.setCalls != 0 {
			t.Error("no quota should be consumed")
		}
	})

	t.Run("shape errors surface", func(t *testing.T) {
		f := newFixture(t)
		f.input.SetContent("user1", validInput())
		f.backend.body = []byte(`{"title":"no summary field"}`)

		if _, err := f.service.Generate(context.Background(), "user1", Options{}); !errors.Is(err, ErrUnrecognizedShape) {
			t.Fatalf("expected ErrUnrecognizedShape, got %v", err)
		}
	})

	t.Run("persistence failure keeps the inline summary without an ID", func(t *testing.T) {
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
}

func TestParseResponse(t *testing.T) {
	t.Run("single string summary", func(t *testing.T) {
		title, segments, err := ParseResponse([]byte(`{"title":"T","summary":"text"}`))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if title != "T" || len(segments) != 1 || segments[0] != "text" {
			t.Errorf("unexpected result %q %v", title, segments)
		}
	})

	t.Run("segment list summary", func(t *testing.T) {
		_, segments, err := ParseResponse([]byte(`{"summary":["a","b"]}`))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(segments) != 2 {
			t.Errorf("unexpected segments %v", segments)
		}
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"summary":42}`, `{"summary":{"x":1}}`, `not json`} {
			if _, _, err := ParseResponse([]byte(body)); err == nil {
				t.Errorf("expected an error for %q", body)
			}
		}
	})
}
