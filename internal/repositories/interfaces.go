package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

// QuizRepository is the read model for quiz payloads. Quizzes are authored
// elsewhere; the engine only ever reads them.
type QuizRepository interface {
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
}

// AttemptRecordRepository stores the local audit rows written after a
// successful submit handoff.
type AttemptRecordRepository interface {
	Create(ctx context.Context, record *models.AttemptRecord) error
	GetByAttemptID(ctx context.Context, attemptID string) (*models.AttemptRecord, error)
}

// DictationRepository reads dictation sentences for the scoring feedback loop.
type DictationRepository interface {
	GetSentence(ctx context.Context, id uint) (*models.DictationSentence, error)
}

// Repository bundles the engine's stores.
type Repository interface {
	Quiz() QuizRepository
	AttemptRecord() AttemptRecordRepository
	Dictation() DictationRepository
}

// IsNotFoundError checks whether err is the driver-level missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
