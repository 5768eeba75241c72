package models

// SubmittedAnswer is the canonical answer shape produced by a renderer at
// submission time. Exactly one of the two value fields is set, determined by
// the question's type. Instances are never mutated after creation; a
// re-submission for the same question replaces the previous entry.
type SubmittedAnswer struct {
	QuestionID       uint    `json:"question_id"`
	SelectedChoiceID *uint   `json:"selected_choice_id,omitempty"`
	UserAnswerText   *string `json:"user_answer_text,omitempty"`
}

type FeedbackState string

const (
	FeedbackNone      FeedbackState = "none"
	FeedbackCorrect   FeedbackState = "correct"
	FeedbackIncorrect FeedbackState = "incorrect"
)

func (f FeedbackState) Showing() bool { return f != FeedbackNone }
