// Package judge maps a (question, submitted answer) pair to a correctness
// verdict. Judging is pure: no I/O, no clock, same inputs always produce the
// same verdict.
package judge

import (
	"strings"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

// Verdict is the outcome of judging one answer. Exactly one of CorrectChoice
// and CorrectText is set on a well-formed question; both are empty when the
// question is malformed (no unique correct choice, no reference sentence) —
// such answers are silently judged incorrect.
type Verdict struct {
	Correct       bool           `json:"correct"`
	CorrectChoice *models.Choice `json:"correct_choice,omitempty"`
	CorrectText   string         `json:"correct_text,omitempty"`
}

// Judge returns the verdict for answer against question.
//
// Choice family: correct iff the selected choice id equals the unique choice
// marked correct. Free-text family: correct iff the submitted text equals the
// reference sentence after trimming, case-insensitively. No partial credit,
// no whitespace normalization beyond the trim.
func Judge(question *models.Question, answer *models.SubmittedAnswer) Verdict {
	if answer == nil {
		// An unanswered question is judged like an empty answer.
		answer = &models.SubmittedAnswer{}
	}

	switch question.Type {
	case models.MultipleChoiceText, models.MultipleChoiceImage, models.ListeningComprehension:
		return judgeChoice(question, answer)
	case models.FillInBlank,
		models.TranslateEnToVi,
		models.TranslateViToEn,
		models.ListeningTranscription,
		models.ArrangeWords:
		return judgeText(question, answer)
	default:
		// Unknown type: unanswerable, nothing to display.
		return Verdict{}
	}
}

func judgeChoice(question *models.Question, answer *models.SubmittedAnswer) Verdict {
	correct := question.CorrectChoice()
	if correct == nil {
		return Verdict{}
	}

	return Verdict{
		Correct:       answer.SelectedChoiceID != nil && *answer.SelectedChoiceID == correct.ID,
		CorrectChoice: correct,
	}
}

func judgeText(question *models.Question, answer *models.SubmittedAnswer) Verdict {
	if question.CorrectSentence == nil {
		return Verdict{}
	}

	want := strings.TrimSpace(*question.CorrectSentence)
	got := ""
	if answer.UserAnswerText != nil {
		got = strings.TrimSpace(*answer.UserAnswerText)
	}

	return Verdict{
		Correct:     answer.UserAnswerText != nil && strings.EqualFold(got, want),
		CorrectText: *question.CorrectSentence,
	}
}
