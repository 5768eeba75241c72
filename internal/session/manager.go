package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyQuiz       = errors.New("quiz has no questions")
)

// Manager owns the live sessions. One controller exists per session id; a
// session survives in the map after entering a terminal state so its final
// view can still be read, until Remove drops it.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	deps     Deps
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Controller),
		deps:     deps,
	}
}

// Create registers a new session for quiz and performs the start-attempt
// call. On a start failure the session is still registered, in its error
// state, so the client can observe what happened; the error is returned too.
func (m *Manager) Create(ctx context.Context, quiz *models.Quiz, userID string) (*Controller, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	controller := newController(uuid.NewString(), userID, quiz, m.deps)

	m.mu.Lock()
	m.sessions[controller.ID()] = controller
	m.mu.Unlock()

	if err := controller.Start(ctx); err != nil {
		return controller, err
	}
	return controller, nil
}

func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	controller, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return controller, nil
}

// Remove closes the session and forgets it. Late effects of in-flight calls
// are dropped by the controller's closed flag.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if controller, ok := m.sessions[id]; ok {
		controller.Close()
		delete(m.sessions, id)
	}
}
