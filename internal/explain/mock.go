package explain

import (
	"context"
	"fmt"
	"sync"

	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
)

// MockExplainer returns a canned reply and records requests, for tests. Like
// the real service it appends the reply to the transcript on success.
type MockExplainer struct {
	mu sync.Mutex

	Reply    string
	Fail     bool
	Requests []Context

	log transcript.Log
}

func NewMockExplainer(log transcript.Log) *MockExplainer {
	return &MockExplainer{Reply: "mock explanation", log: log}
}

func (m *MockExplainer) Request(ctx context.Context, userID string, ec Context) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, ec)
	fail := m.Fail
	reply := m.Reply
	m.mu.Unlock()

	if fail {
		return "", fmt.Errorf("%w: mock failure", ErrExplanation)
	}

	if m.log != nil {
		if err := m.log.Append(ctx, userID, transcript.Entry{Role: "assistant", Content: reply, Source: ec.Source}); err != nil {
			return "", fmt.Errorf("%w: %v", ErrExplanation, err)
		}
	}
	return reply, nil
}

// RequestCount returns how many explanation requests were made.
func (m *MockExplainer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
