package services

import (
	"errors"

	"github.com/hnimkwazeo/quiz-review-service/internal/dictation"
	apperrors "github.com/hnimkwazeo/quiz-review-service/internal/errors"
	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/scoring"
	"github.com/hnimkwazeo/quiz-review-service/internal/session"
)

// ===== SERVICE ERRORS =====

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrSentenceNotFound = errors.New("dictation sentence not found")
	ErrAttemptNotFound  = errors.New("attempt record not found")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR CLASSIFICATION =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrSentenceNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, session.ErrSessionNotFound)
}

// IsFatal checks if error kills its session: only a failed attempt start
// qualifies. The learner must re-enter the flow.
func IsFatal(err error) bool {
	return errors.Is(err, scoring.ErrAttemptStart)
}

// IsRetryable checks if error allows a manual user retry without losing
// session state.
func IsRetryable(err error) bool {
	return errors.Is(err, scoring.ErrSubmission) ||
		errors.Is(err, dictation.ErrScoring)
}

// IsNonFatal checks if error is isolated to one feedback card or sentence
// check and leaves the surrounding flow intact.
func IsNonFatal(err error) bool {
	return errors.Is(err, explain.ErrExplanation) ||
		errors.Is(err, dictation.ErrScoring)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
