package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/claims-cli/internal/model"
	"github.com/sells-group/claims-cli/internal/store"
	"github.com/sells-group/claims-cli/pkg/genai"
)

// --- ReviewStore mock ---

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Insert(ctx context.Context, entry model.ReviewEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewStore) Query(ctx context.Context, filter store.Filter) ([]model.ReviewEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReviewEntry), args.Error(1)
}

func (m *mockReviewStore) Resolve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockReviewStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- OCR extractor stub ---

type stubExtractor struct {
	// texts maps file base names to extracted text; a missing key fails
	// extraction, simulating a dead collaborator.
	texts map[string]string
	err   error
}

func (s *stubExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for name, text := range s.texts {
		if len(path) >= len(name) && path[len(path)-len(name):] == name {
			return text, nil
		}
	}
	return "", context.Canceled
}

// --- GenAI stub ---

type stubAI struct {
	outcome genai.Outcome
}

func (s *stubAI) Enrich(ctx context.Context, doc string) genai.Outcome {
	return s.outcome
}
