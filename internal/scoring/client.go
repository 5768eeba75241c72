// Package scoring is the client of the external attempt/scoring backend. The
// engine hands finished attempts off to it; grading itself happens there.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

var (
	// ErrAttemptStart is fatal for the session that hit it: the session
	// enters its error state and is never retried automatically.
	ErrAttemptStart = errors.New("attempt could not be started")

	// ErrSubmission is recoverable: the session keeps its answers and the
	// learner may retry the submit manually.
	ErrSubmission = errors.New("attempt submission failed")
)

// Client talks to the scoring backend.
type Client interface {
	StartAttempt(ctx context.Context, quizID uint, userID string) (string, error)
	SubmitAttempt(ctx context.Context, attemptID string, answers []models.SubmittedAnswer) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type startAttemptRequest struct {
	QuizID uint   `json:"quiz_id"`
	UserID string `json:"user_id"`
}

type startAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
}

type submitAttemptRequest struct {
	AttemptID string                   `json:"attempt_id"`
	Answers   []models.SubmittedAnswer `json:"answers"`
}

func (c *httpClient) StartAttempt(ctx context.Context, quizID uint, userID string) (string, error) {
	var resp startAttemptResponse
	err := c.post(ctx, "/api/v1/attempts/start", startAttemptRequest{QuizID: quizID, UserID: userID}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAttemptStart, err)
	}
	if resp.AttemptID == "" {
		return "", fmt.Errorf("%w: backend returned no attempt id", ErrAttemptStart)
	}
	return resp.AttemptID, nil
}

func (c *httpClient) SubmitAttempt(ctx context.Context, attemptID string, answers []models.SubmittedAnswer) error {
	err := c.post(ctx, "/api/v1/attempts/submit", submitAttemptRequest{AttemptID: attemptID, Answers: answers}, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	return nil
}

func (c *httpClient) post(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decoding backend response: %w", err)
		}
	}
	return nil
}
