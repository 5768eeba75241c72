package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCheckQuiz(t *testing.T) {
	v := NewQuizValidator()

	t.Run("well-formed quiz has no degrades", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{
					ID:   1,
					Type: models.MultipleChoiceText,
					Choices: []models.Choice{
						{ID: 1, Content: strPtr("a cat")},
						{ID: 2, Content: strPtr("a dog"), IsCorrect: true},
					},
				},
				{ID: 2, Type: models.FillInBlank, CorrectSentence: strPtr("cat")},
			},
		}

		assert.Empty(t, v.CheckQuiz(quiz))
	})

	t.Run("no correct choice is flagged", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{
					ID:   7,
					Type: models.ListeningComprehension,
					Choices: []models.Choice{
						{ID: 1, Content: strPtr("one")},
						{ID: 2, Content: strPtr("two")},
					},
				},
			},
		}

		degrades := v.CheckQuiz(quiz)
		assert.Len(t, degrades, 1)
		assert.Equal(t, uint(7), degrades[0].QuestionID)
		assert.Contains(t, degrades[0].Reason, "exactly one correct choice")
	})

	t.Run("two correct choices are flagged", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{
					ID:   8,
					Type: models.MultipleChoiceImage,
					Choices: []models.Choice{
						{ID: 1, ImageURL: strPtr("/img/1.png"), IsCorrect: true},
						{ID: 2, ImageURL: strPtr("/img/2.png"), IsCorrect: true},
					},
				},
			},
		}

		assert.Len(t, v.CheckQuiz(quiz), 1)
	})

	t.Run("choice with no display value is flagged", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{
					ID:   9,
					Type: models.MultipleChoiceText,
					Choices: []models.Choice{
						{ID: 1},
						{ID: 2, Content: strPtr("two"), IsCorrect: true},
					},
				},
			},
		}

		degrades := v.CheckQuiz(quiz)
		assert.Len(t, degrades, 1)
		assert.Contains(t, degrades[0].Reason, "neither content nor image")
	})

	t.Run("missing correct sentence is flagged", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{ID: 10, Type: models.TranslateEnToVi},
			},
		}

		assert.Len(t, v.CheckQuiz(quiz), 1)
	})

	t.Run("unknown type is flagged", func(t *testing.T) {
		quiz := &models.Quiz{
			Questions: []models.Question{
				{ID: 11, Type: "SPEAKING_DRILL"},
			},
		}

		degrades := v.CheckQuiz(quiz)
		assert.Len(t, degrades, 1)
		assert.Contains(t, degrades[0].Reason, "unsupported question type")
	})
}
