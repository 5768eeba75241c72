package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hnimkwazeo/quiz-review-service/internal/events"
	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/render"
	"github.com/hnimkwazeo/quiz-review-service/internal/scoring"
	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

// twoQuestionQuiz: a multiple-choice question (correct choice id 5) followed
// by a fill-in-blank question (correct sentence "cat").
func twoQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:    1,
		Title: "Basics",
		Questions: []models.Question{
			{
				ID:     1,
				QuizID: 1,
				Type:   models.MultipleChoiceText,
				Prompt: "Which animal says meow?",
				Choices: []models.Choice{
					{ID: 5, Content: strPtr("a cat"), IsCorrect: true},
					{ID: 6, Content: strPtr("a dog")},
				},
			},
			{
				ID:              2,
				QuizID:          1,
				Type:            models.FillInBlank,
				Prompt:          "The ___ sat on the mat.",
				CorrectSentence: strPtr("cat"),
			},
		},
	}
}

type fixture struct {
	manager   *Manager
	backend   *scoring.MockClient
	explainer *explain.MockExplainer
	publisher *events.MockEventPublisher
	log       *transcript.MemoryLog
}

func newFixture() *fixture {
	backend := scoring.NewMockClient()
	log := transcript.NewMemoryLog()
	explainer := explain.NewMockExplainer(log)
	logger := utils.NewDevelopmentLogger()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))

	manager := NewManager(Deps{
		Scoring:   backend,
		Explainer: explainer,
		Publisher: publisher,
		Logger:    logger,
	})

	return &fixture{manager: manager, backend: backend, explainer: explainer, publisher: publisher, log: log}
}

// completedEvents filters the published events down to session.completed.
func (f *fixture) completedEvents() []events.SessionEvent {
	var completed []events.SessionEvent
	for _, e := range f.publisher.PublishedEvents() {
		if e.Type == events.EventSessionCompleted {
			completed = append(completed, e)
		}
	}
	return completed
}

func (f *fixture) startedSession(t *testing.T) *Controller {
	t.Helper()
	controller, err := f.manager.Create(context.Background(), twoQuestionQuiz(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, models.SessionActive, controller.View().State)
	return controller
}

func TestSession_FullRun(t *testing.T) {
	// Scenario: wrong choice on question 1, correct text on question 2,
	// then the final submit hands off both recorded answers in order.
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	view := c.View()
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, models.FeedbackNone, view.Feedback)
	assert.NotNil(t, view.Question)
	assert.Equal(t, uint(1), view.Question.ID)

	// Wrong choice: feedback incorrect, correct choice surfaced for display.
	err := c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(6)})
	assert.NoError(t, err)

	view = c.View()
	assert.Equal(t, models.FeedbackIncorrect, view.Feedback)
	assert.NotNil(t, view.CorrectAnswer)
	assert.NotNil(t, view.CorrectAnswer.Choice)
	assert.Equal(t, uint(5), view.CorrectAnswer.Choice.ID)

	// Continue advances to question 2 and clears feedback.
	assert.NoError(t, c.Continue(ctx))
	view = c.View()
	assert.Equal(t, 1, view.Index)
	assert.Equal(t, models.FeedbackNone, view.Feedback)
	assert.Nil(t, view.CorrectAnswer)

	// Case-insensitive text answer is judged correct.
	err = c.SubmitAnswer(render.AnswerInput{UserAnswerText: strPtr("Cat")})
	assert.NoError(t, err)
	assert.Equal(t, models.FeedbackCorrect, c.View().Feedback)

	// Continue on the last question triggers the submit handoff.
	assert.NoError(t, c.Continue(ctx))
	view = c.View()
	assert.Equal(t, models.SessionSubmitted, view.State)

	answers := f.backend.SubmittedAnswers(view.AttemptID)
	assert.Len(t, answers, 2)
	assert.Equal(t, uint(1), answers[0].QuestionID)
	assert.Equal(t, uint(6), *answers[0].SelectedChoiceID)
	assert.Equal(t, uint(2), answers[1].QuestionID)
	assert.Equal(t, "Cat", *answers[1].UserAnswerText)

	// Exactly one completion event, carrying the handed-off attempt.
	completed := f.completedEvents()
	assert.Len(t, completed, 1)
	data, ok := completed[0].Data.(events.SessionCompletedEvent)
	assert.True(t, ok)
	assert.Equal(t, view.AttemptID, data.AttemptID)
	assert.Equal(t, 2, data.AnswerCount)
}

func TestSession_StartFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.backend.FailStart = true

	controller, err := f.manager.Create(context.Background(), twoQuestionQuiz(), "user-1")
	assert.ErrorIs(t, err, scoring.ErrAttemptStart)

	view := controller.View()
	assert.Equal(t, models.SessionError, view.State)
	assert.Nil(t, view.Question, "no question is ever rendered")

	// Progression is blocked; answers are no-ops against a dead session.
	err = controller.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)})
	assert.ErrorIs(t, err, ErrNotActive)
	assert.ErrorIs(t, controller.Continue(context.Background()), ErrNotActive)
}

func TestSession_AnswerIdempotentWhileFeedbackShowing(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(6)}))
	before := c.View()

	// Duplicate submissions while feedback is showing change nothing, even
	// with a different (winning) choice.
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)}))
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)}))

	after := c.View()
	assert.Equal(t, before.Feedback, after.Feedback)
	assert.Equal(t, models.FeedbackIncorrect, after.Feedback)

	c.mu.Lock()
	recorded := c.answers[1]
	count := len(c.answers)
	c.mu.Unlock()
	assert.Equal(t, 1, count)
	assert.Equal(t, uint(6), *recorded.SelectedChoiceID)
}

func TestSession_ContinueWithoutFeedbackIsNoop(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)

	assert.NoError(t, c.Continue(context.Background()))
	assert.Equal(t, 0, c.View().Index, "index never moves without a judged answer")
}

func TestSession_MonotonicProgression(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	seen := []int{c.View().Index}
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)}))
	assert.NoError(t, c.Continue(ctx))
	seen = append(seen, c.View().Index)

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{UserAnswerText: strPtr("cat")}))
	assert.NoError(t, c.Continue(ctx))

	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, models.SessionSubmitted, c.View().State)
}

func TestSession_ReSubmissionReplacesAnswer(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	// First pass through question 1, judged, then continue.
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(6)}))
	assert.NoError(t, c.Continue(ctx))

	// Question 2 answered and submitted: the answer list must hold exactly
	// one entry per question, in question order.
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{UserAnswerText: strPtr("dog")}))
	assert.NoError(t, c.Continue(ctx))

	answers := f.backend.SubmittedAnswers(c.View().AttemptID)
	assert.Len(t, answers, 2)
}

func TestSession_SubmitFailureIsRetryable(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)}))
	assert.NoError(t, c.Continue(ctx))
	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{UserAnswerText: strPtr("cat")}))

	f.backend.FailSubmit = true
	err := c.Continue(ctx)
	assert.ErrorIs(t, err, scoring.ErrSubmission)

	view := c.View()
	assert.Equal(t, models.SessionSubmitting, view.State)
	assert.True(t, view.CanRetry)

	// No completion event until the handoff actually succeeds.
	assert.Empty(t, f.completedEvents())

	// In-memory answers survive the failure; a manual retry succeeds.
	f.backend.FailSubmit = false
	assert.NoError(t, c.RetrySubmit(ctx))

	view = c.View()
	assert.Equal(t, models.SessionSubmitted, view.State)
	assert.Len(t, f.backend.SubmittedAnswers(view.AttemptID), 2)
	assert.Len(t, f.completedEvents(), 1)
}

func TestSession_RetryOnlyValidWhileSubmitting(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)

	assert.ErrorIs(t, c.RetrySubmit(context.Background()), ErrNotSubmitting)
}

func TestSession_ExplanationRequiresFeedback(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	_, err := c.RequestExplanation(ctx)
	assert.ErrorIs(t, err, ErrNoFeedback)

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(6)}))

	reply, err := c.RequestExplanation(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "mock explanation", reply)

	// The reply landed in the shared transcript.
	entries, err := f.log.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "assistant", entries[0].Role)

	// The request carried the judged answer and the canonical correct one.
	assert.Equal(t, 1, f.explainer.RequestCount())
	assert.Equal(t, "a dog", f.explainer.Requests[0].UserAnswer)
	assert.Equal(t, "a cat", f.explainer.Requests[0].CorrectAnswer)
}

func TestSession_ExplanationFailureLeavesSessionIntact(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)
	ctx := context.Background()

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(6)}))
	f.explainer.Fail = true

	_, err := c.RequestExplanation(ctx)
	assert.ErrorIs(t, err, explain.ErrExplanation)

	// State machine untouched, transcript untouched.
	assert.Equal(t, models.FeedbackIncorrect, c.View().Feedback)
	entries, _ := f.log.List(ctx, "user-1")
	assert.Empty(t, entries)
}

func TestSession_ClosedSessionDropsEffects(t *testing.T) {
	f := newFixture()
	c := f.startedSession(t)

	f.manager.Remove(c.ID())

	assert.ErrorIs(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(5)}), ErrClosed)
	assert.ErrorIs(t, c.Continue(context.Background()), ErrClosed)

	_, err := f.manager.Get(c.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_RejectsEmptyQuiz(t *testing.T) {
	f := newFixture()

	_, err := f.manager.Create(context.Background(), &models.Quiz{ID: 9, Title: "empty"}, "user-1")
	assert.ErrorIs(t, err, ErrEmptyQuiz)
}

func TestSession_MalformedQuestionDegradesSilently(t *testing.T) {
	f := newFixture()
	quiz := &models.Quiz{
		ID:    3,
		Title: "broken",
		Questions: []models.Question{
			{
				ID:   1,
				Type: models.MultipleChoiceText,
				Choices: []models.Choice{
					{ID: 1, Content: strPtr("one")},
					{ID: 2, Content: strPtr("two")},
				},
			},
		},
	}

	c, err := f.manager.Create(context.Background(), quiz, "user-1")
	assert.NoError(t, err)

	assert.NoError(t, c.SubmitAnswer(render.AnswerInput{SelectedChoiceID: uintPtr(1)}))

	view := c.View()
	assert.Equal(t, models.FeedbackIncorrect, view.Feedback)
	assert.Nil(t, view.CorrectAnswer, "malformed question has nothing to display")
}
