package scoring

import (
	"context"
	"fmt"
	"sync"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

// MockClient records calls in memory and can be told to fail, for tests.
type MockClient struct {
	mu sync.Mutex

	FailStart  bool
	FailSubmit bool

	Started   []uint
	Submitted map[string][]models.SubmittedAnswer

	nextAttempt int
}

func NewMockClient() *MockClient {
	return &MockClient{Submitted: make(map[string][]models.SubmittedAnswer)}
}

func (m *MockClient) StartAttempt(ctx context.Context, quizID uint, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailStart {
		return "", fmt.Errorf("%w: mock failure", ErrAttemptStart)
	}

	m.nextAttempt++
	m.Started = append(m.Started, quizID)
	return fmt.Sprintf("attempt-%d", m.nextAttempt), nil
}

func (m *MockClient) SubmitAttempt(ctx context.Context, attemptID string, answers []models.SubmittedAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSubmit {
		return fmt.Errorf("%w: mock failure", ErrSubmission)
	}

	m.Submitted[attemptID] = append([]models.SubmittedAnswer(nil), answers...)
	return nil
}

// SubmittedAnswers returns what was handed off for an attempt.
func (m *MockClient) SubmittedAnswers(attemptID string) []models.SubmittedAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Submitted[attemptID]
}
