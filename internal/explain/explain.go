// Package explain requests on-demand AI explanations for judged answers and
// dictation checks. Each request is one-shot; replies land in the shared
// explanation transcript in arrival order.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hnimkwazeo/quiz-review-service/internal/config"
	"github.com/hnimkwazeo/quiz-review-service/internal/events"
	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

// ErrExplanation marks a failed explanation request. Non-fatal: the feedback
// card shows an error and the transcript is left untouched.
var ErrExplanation = errors.New("explanation request failed")

// Context carries what the explanation should talk about. Quiz callers fill
// Prompt/UserAnswer/CorrectAnswer; dictation callers reuse the same fields
// with the sentence as the prompt and the transcript as the user answer.
type Context struct {
	Source        string `json:"source"` // "quiz" or "dictation"
	Prompt        string `json:"prompt"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// Explainer is what the session controller and handlers depend on.
type Explainer interface {
	Request(ctx context.Context, userID string, ec Context) (string, error)
}

type Service struct {
	cfg       config.AIConfig
	client    *http.Client
	log       transcript.Log
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewService(cfg config.AIConfig, log transcript.Log, publisher events.EventPublisher, logger utils.Logger) *Service {
	return &Service{
		cfg:       cfg,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
		publisher: publisher,
		logger:    logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = "You are an English tutor for Vietnamese learners. " +
	"Explain briefly, in simple terms, why the correct answer is correct and " +
	"what the learner's answer got wrong. Answer in Vietnamese with English " +
	"examples where helpful."

// Request asks the model for an explanation and appends the reply to the
// caller's transcript. On any failure it returns ErrExplanation and writes
// nothing.
func (s *Service) Request(ctx context.Context, userID string, ec Context) (string, error) {
	reply, err := s.complete(ctx, ec)
	if err != nil {
		s.logger.LogError(err, "explanation request failed", "user_id", userID, "source", ec.Source)
		return "", fmt.Errorf("%w: %v", ErrExplanation, err)
	}

	entry := transcript.Entry{
		Role:    "assistant",
		Content: reply,
		Source:  ec.Source,
	}
	if err := s.log.Append(ctx, userID, entry); err != nil {
		// The reply was produced but could not be recorded; surface the
		// failure so the chat panel does not silently diverge.
		s.logger.LogError(err, "failed to append explanation to transcript", "user_id", userID)
		return "", fmt.Errorf("%w: %v", ErrExplanation, err)
	}

	if s.publisher != nil {
		event := events.NewSessionEvent(events.EventExplanationReady, events.ExplanationReadyEvent{
			UserID: userID,
			Source: ec.Source,
		})
		if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
			// Fan-out is best effort; the reply already reached the transcript.
			s.logger.LogError(err, "failed to publish explanation event", "user_id", userID)
		}
	}

	return reply, nil
}

func (s *Service) complete(ctx context.Context, ec Context) (string, error) {
	userContent := fmt.Sprintf(
		"Question: %s\nLearner's answer: %s\nCorrect answer: %s\nExplain the difference.",
		ec.Prompt, ec.UserAnswer, ec.CorrectAnswer,
	)

	reqBody := chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("AI API returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
