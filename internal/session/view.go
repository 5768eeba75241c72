package session

import (
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/render"
)

// CorrectDisplay is the canonical correct answer shown on the feedback step.
// One of Choice/Text is set; both are empty for a malformed question.
type CorrectDisplay struct {
	Choice *render.ChoiceView `json:"choice,omitempty"`
	Text   string             `json:"text,omitempty"`
}

// View is a read-only snapshot of the session for transport. Question is
// present only while the session is active; CorrectAnswer only while
// feedback is showing.
type View struct {
	SessionID     string               `json:"session_id"`
	State         models.SessionState  `json:"state"`
	QuizID        uint                 `json:"quiz_id"`
	QuizTitle     string               `json:"quiz_title"`
	AttemptID     string               `json:"attempt_id,omitempty"`
	Index         int                  `json:"index"`
	Total         int                  `json:"total"`
	Question      *render.QuestionView `json:"question,omitempty"`
	Feedback      models.FeedbackState `json:"feedback"`
	CorrectAnswer *CorrectDisplay      `json:"correct_answer,omitempty"`
	CanRetry      bool                 `json:"can_retry,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// View builds the current snapshot.
func (c *Controller) View() *View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := &View{
		SessionID: c.id,
		State:     c.state,
		QuizID:    c.quiz.ID,
		QuizTitle: c.quiz.Title,
		AttemptID: c.attemptID,
		Index:     c.index,
		Total:     len(c.quiz.Questions),
		Feedback:  c.feedback,
		CanRetry:  c.canRetry,
	}

	if c.lastErr != nil {
		view.Error = c.lastErr.Error()
	}

	if c.state == models.SessionActive && c.index < len(c.quiz.Questions) {
		question := &c.quiz.Questions[c.index]
		view.Question = render.ForType(question.Type).Render(question)
	}

	if c.feedback.Showing() && c.verdict != nil {
		display := &CorrectDisplay{Text: c.verdict.CorrectText}
		if choice := c.verdict.CorrectChoice; choice != nil {
			display.Choice = &render.ChoiceView{
				ID:       choice.ID,
				Content:  choice.Content,
				ImageURL: choice.ImageURL,
			}
		}
		if display.Choice != nil || display.Text != "" {
			view.CorrectAnswer = display
		}
	}

	return view
}
