package validator

import (
	"fmt"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

// QuizDegrade flags a question that cannot be answered correctly as loaded.
// The judge handles these silently (always incorrect, no display value); the
// load-time check exists so the condition is at least visible in logs instead
// of only surfacing as a learner who can never pass a question.
type QuizDegrade struct {
	QuestionID uint   `json:"question_id"`
	Reason     string `json:"reason"`
}

func (d QuizDegrade) String() string {
	return fmt.Sprintf("question %d: %s", d.QuestionID, d.Reason)
}

// QuizValidator performs defensive checks on server-authored quiz payloads.
type QuizValidator struct{}

func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// CheckQuiz returns one degrade entry per malformed question. A non-empty
// result does not block the session; malformed questions degrade at judge
// time instead.
func (v *QuizValidator) CheckQuiz(quiz *models.Quiz) []QuizDegrade {
	var degrades []QuizDegrade

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if d := v.checkQuestion(q); d != nil {
			degrades = append(degrades, *d)
		}
	}

	return degrades
}

func (v *QuizValidator) checkQuestion(q *models.Question) *QuizDegrade {
	if !q.Type.IsSupported() {
		return &QuizDegrade{QuestionID: q.ID, Reason: fmt.Sprintf("unsupported question type %q", q.Type)}
	}

	if q.Type.IsChoiceBased() {
		correct := 0
		for i := range q.Choices {
			c := &q.Choices[i]
			if c.Content == nil && c.ImageURL == nil {
				return &QuizDegrade{QuestionID: q.ID, Reason: fmt.Sprintf("choice %d has neither content nor image", c.ID)}
			}
			if c.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return &QuizDegrade{QuestionID: q.ID, Reason: fmt.Sprintf("expected exactly one correct choice, found %d", correct)}
		}
		return nil
	}

	if q.CorrectSentence == nil || *q.CorrectSentence == "" {
		return &QuizDegrade{QuestionID: q.ID, Reason: "free-text question has no correct sentence"}
	}
	return nil
}
