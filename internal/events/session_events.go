package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// EventSessionCompleted fires exactly once per session, after the final
	// submit succeeds. The hosting route consumes it to move the learner to
	// the processing/result view.
	EventSessionCompleted EventType = "session.completed"

	// EventExplanationReady fires after an explanation has been appended to
	// a learner's transcript, for the real-time fan-out channel.
	EventExplanationReady EventType = "explanation.ready"
)

// SessionEvent is the envelope for everything the engine publishes.
type SessionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type SessionCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	AttemptID   string    `json:"attempt_id"`
	QuizID      uint      `json:"quiz_id"`
	UserID      string    `json:"user_id"`
	AnswerCount int       `json:"answer_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ExplanationReadyEvent struct {
	UserID string `json:"user_id"`
	Source string `json:"source"` // "quiz" or "dictation"
}

func NewSessionEvent(eventType EventType, data any) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "quiz-review-service",
		Version:   "1.0",
		Timestamp: time.Now(),
		Data:      data,
	}
}
