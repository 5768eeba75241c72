// Package session owns the state machine for one quiz attempt: question
// sequencing, feedback gating, answer accumulation and the submit handoff to
// the scoring backend.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/hnimkwazeo/quiz-review-service/internal/events"
	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/judge"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/render"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
	"github.com/hnimkwazeo/quiz-review-service/internal/scoring"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

var (
	ErrClosed         = errors.New("session is closed")
	ErrNotActive      = errors.New("session is not active")
	ErrNotSubmitting  = errors.New("session is not awaiting a submit retry")
	ErrNoFeedback     = errors.New("no feedback is showing")
	ErrSubmitInFlight = errors.New("a submit is already in flight")
	ErrAlreadyStarted = errors.New("session already started")
)

// Controller drives a single attempt session. All state transitions are
// serialized on the internal mutex; the three network calls (start, submit,
// explain) run outside it so a slow backend never blocks reads, and their
// effects are dropped once the session is closed.
type Controller struct {
	mu sync.Mutex

	id     string
	userID string
	quiz   *models.Quiz

	state     models.SessionState
	attemptID string
	index     int
	answers   map[uint]models.SubmittedAnswer
	feedback  models.FeedbackState
	verdict   *judge.Verdict
	canRetry  bool
	inFlight  bool
	closed    bool
	lastErr   error

	scoring   scoring.Client
	explainer explain.Explainer
	publisher events.EventPublisher
	records   repositories.AttemptRecordRepository
	logger    utils.Logger
}

// Deps are the collaborators a controller needs. Records and Publisher may
// be nil; the session then skips the audit row / completion event.
type Deps struct {
	Scoring   scoring.Client
	Explainer explain.Explainer
	Publisher events.EventPublisher
	Records   repositories.AttemptRecordRepository
	Logger    utils.Logger
}

func newController(id, userID string, quiz *models.Quiz, deps Deps) *Controller {
	return &Controller{
		id:        id,
		userID:    userID,
		quiz:      quiz,
		state:     models.SessionLoading,
		answers:   make(map[uint]models.SubmittedAnswer),
		feedback:  models.FeedbackNone,
		scoring:   deps.Scoring,
		explainer: deps.Explainer,
		publisher: deps.Publisher,
		records:   deps.Records,
		logger:    deps.Logger,
	}
}

func (c *Controller) ID() string { return c.id }

// Start performs the external "start attempt" call. A failure is fatal for
// this session: it enters the error state and blocks all progression.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != models.SessionLoading {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.mu.Unlock()

	attemptID, err := c.scoring.StartAttempt(ctx, c.quiz.ID, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.state = models.SessionError
		c.lastErr = err
		c.logger.LogError(err, "failed to start attempt", "session_id", c.id, "quiz_id", c.quiz.ID)
		return err
	}

	c.attemptID = attemptID
	c.state = models.SessionActive
	c.index = 0
	c.logger.Info("attempt started",
		"session_id", c.id,
		"attempt_id", attemptID,
		"quiz_id", c.quiz.ID,
		"user_id", c.userID)
	return nil
}

// SubmitAnswer judges the answer for the current question and enters the
// feedback state. While feedback is already showing the call is a no-op:
// that is the guard against double-clicks and late duplicate submissions.
func (c *Controller) SubmitAnswer(input render.AnswerInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state != models.SessionActive {
		return ErrNotActive
	}
	if c.feedback.Showing() {
		c.logger.Debug("answer ignored while feedback showing", "session_id", c.id, "index", c.index)
		return nil
	}
	if c.index >= len(c.quiz.Questions) {
		return ErrNotActive
	}

	question := &c.quiz.Questions[c.index]
	answer, err := render.ForType(question.Type).Collect(question, input)
	if err != nil {
		return err
	}

	// Upsert: a re-submission for the same question replaces the old entry.
	c.answers[question.ID] = *answer

	verdict := judge.Judge(question, answer)
	c.verdict = &verdict
	if verdict.Correct {
		c.feedback = models.FeedbackCorrect
	} else {
		c.feedback = models.FeedbackIncorrect
	}

	c.logger.Info("answer judged",
		"session_id", c.id,
		"question_id", question.ID,
		"correct", verdict.Correct)
	return nil
}

// Continue clears feedback and advances the session: to the next question,
// or into the final submit on the last one. Without feedback showing it is a
// no-op.
func (c *Controller) Continue(ctx context.Context) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != models.SessionActive {
		c.mu.Unlock()
		return ErrNotActive
	}
	if !c.feedback.Showing() {
		c.mu.Unlock()
		return nil
	}

	c.feedback = models.FeedbackNone
	c.verdict = nil

	if c.index < len(c.quiz.Questions)-1 {
		c.index++
		c.mu.Unlock()
		return nil
	}

	c.state = models.SessionSubmitting
	c.inFlight = true
	answers := c.orderedAnswersLocked()
	c.mu.Unlock()

	return c.submit(ctx, answers)
}

// RetrySubmit re-sends the answers after a failed final submit. Only valid
// while the session is stuck in Submitting; the answer list is untouched by
// the earlier failure, so nothing is lost.
func (c *Controller) RetrySubmit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != models.SessionSubmitting {
		c.mu.Unlock()
		return ErrNotSubmitting
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.inFlight = true
	answers := c.orderedAnswersLocked()
	c.mu.Unlock()

	return c.submit(ctx, answers)
}

func (c *Controller) submit(ctx context.Context, answers []models.SubmittedAnswer) error {
	err := c.scoring.SubmitAttempt(ctx, c.attemptID, answers)

	c.mu.Lock()
	c.inFlight = false
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.canRetry = true
		c.lastErr = err
		c.mu.Unlock()
		c.logger.LogError(err, "attempt submission failed", "session_id", c.id, "attempt_id", c.attemptID)
		return err
	}

	c.state = models.SessionSubmitted
	c.canRetry = false
	attemptID := c.attemptID
	quizID := c.quiz.ID
	userID := c.userID
	c.mu.Unlock()

	c.logger.Info("attempt submitted",
		"session_id", c.id,
		"attempt_id", attemptID,
		"answers_count", len(answers))

	c.recordAttempt(ctx, attemptID, quizID, userID, answers)
	c.publishCompleted(ctx, attemptID, quizID, userID, len(answers))
	return nil
}

func (c *Controller) recordAttempt(ctx context.Context, attemptID string, quizID uint, userID string, answers []models.SubmittedAnswer) {
	if c.records == nil {
		return
	}

	payload, err := json.Marshal(answers)
	if err != nil {
		c.logger.LogError(err, "failed to marshal attempt answers", "attempt_id", attemptID)
		return
	}

	record := &models.AttemptRecord{
		AttemptID:   attemptID,
		QuizID:      quizID,
		UserID:      userID,
		Answers:     payload,
		SubmittedAt: time.Now(),
	}
	if err := c.records.Create(ctx, record); err != nil {
		// Audit row only; the handoff already succeeded.
		c.logger.LogError(err, "failed to record attempt", "attempt_id", attemptID)
	}
}

func (c *Controller) publishCompleted(ctx context.Context, attemptID string, quizID uint, userID string, answerCount int) {
	if c.publisher == nil {
		return
	}

	event := events.NewSessionEvent(events.EventSessionCompleted, events.SessionCompletedEvent{
		SessionID:   c.id,
		AttemptID:   attemptID,
		QuizID:      quizID,
		UserID:      userID,
		AnswerCount: answerCount,
		SubmittedAt: time.Now(),
	})
	if err := c.publisher.PublishSessionEvent(ctx, event); err != nil {
		c.logger.LogError(err, "failed to publish session completed event", "session_id", c.id)
	}
}

// RequestExplanation asks for an AI explanation of the currently judged
// answer. Orthogonal to the state machine: valid whenever feedback is
// showing, changes no session state, and a failure is isolated to the
// feedback card.
func (c *Controller) RequestExplanation(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	if c.state != models.SessionActive || !c.feedback.Showing() {
		c.mu.Unlock()
		return "", ErrNoFeedback
	}

	question := &c.quiz.Questions[c.index]
	answer := c.answers[question.ID]
	ec := explain.Context{
		Source:        "quiz",
		Prompt:        question.Prompt,
		UserAnswer:    c.answerDisplayLocked(question, &answer),
		CorrectAnswer: c.correctDisplayLocked(),
	}
	userID := c.userID
	c.mu.Unlock()

	return c.explainer.Request(ctx, userID, ec)
}

// Close drops the session. Any in-flight call finishes against the backend
// but no longer mutates session state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// orderedAnswersLocked returns the recorded answers in original question
// order. Callers hold c.mu.
func (c *Controller) orderedAnswersLocked() []models.SubmittedAnswer {
	answers := make([]models.SubmittedAnswer, 0, len(c.answers))
	for i := range c.quiz.Questions {
		if a, ok := c.answers[c.quiz.Questions[i].ID]; ok {
			answers = append(answers, a)
		}
	}
	return answers
}

func (c *Controller) answerDisplayLocked(question *models.Question, answer *models.SubmittedAnswer) string {
	if answer.UserAnswerText != nil {
		return *answer.UserAnswerText
	}
	if answer.SelectedChoiceID != nil {
		for i := range question.Choices {
			choice := &question.Choices[i]
			if choice.ID == *answer.SelectedChoiceID {
				if choice.Content != nil {
					return *choice.Content
				}
				if choice.ImageURL != nil {
					return *choice.ImageURL
				}
			}
		}
	}
	return ""
}

func (c *Controller) correctDisplayLocked() string {
	if c.verdict == nil {
		return ""
	}
	if c.verdict.CorrectChoice != nil {
		if c.verdict.CorrectChoice.Content != nil {
			return *c.verdict.CorrectChoice.Content
		}
		if c.verdict.CorrectChoice.ImageURL != nil {
			return *c.verdict.CorrectChoice.ImageURL
		}
	}
	return c.verdict.CorrectText
}
