package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionState is the attempt session's lifecycle state. Transitions are
// owned exclusively by the session controller.
type SessionState string

const (
	SessionLoading    SessionState = "loading"
	SessionActive     SessionState = "active"
	SessionSubmitting SessionState = "submitting"
	SessionSubmitted  SessionState = "submitted"
	SessionError      SessionState = "error"
)

// AttemptRecord is the local audit row written after a successful final
// submit. The scoring backend owns the authoritative result; this row only
// records what was handed off.
type AttemptRecord struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AttemptID   string         `json:"attempt_id" gorm:"not null;size:64;index"`
	QuizID      uint           `json:"quiz_id" gorm:"not null;index"`
	UserID      string         `json:"user_id" gorm:"not null;size:64;index"`
	Answers     datatypes.JSON `json:"answers" gorm:"type:jsonb"` // []SubmittedAnswer
	SubmittedAt time.Time      `json:"submitted_at"`
}

func (AttemptRecord) TableName() string { return "attempt_records" }
