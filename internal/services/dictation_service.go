package services

import (
	"context"
	"fmt"

	"github.com/hnimkwazeo/quiz-review-service/internal/dictation"
	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

// DictationService runs the scoring feedback loop for dictation sentences.
// Checks and explanations are independent of the quiz session state machine;
// they only share the explanation transcript.
type DictationService interface {
	Check(ctx context.Context, sentenceID uint, userText string) (*models.NlpAnalysis, error)
	Explain(ctx context.Context, userID string, sentenceID uint, userText string) (string, error)
}

type dictationService struct {
	repo      repositories.DictationRepository
	scorer    *dictation.Scorer
	explainer explain.Explainer
	logger    utils.Logger
}

func NewDictationService(repo repositories.DictationRepository, explainer explain.Explainer, logger utils.Logger) DictationService {
	return &dictationService{
		repo:      repo,
		scorer:    dictation.NewScorer(),
		explainer: explainer,
		logger:    logger,
	}
}

func (s *dictationService) Check(ctx context.Context, sentenceID uint, userText string) (*models.NlpAnalysis, error) {
	sentence, err := s.repo.GetSentence(ctx, sentenceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSentenceNotFound
		}
		return nil, fmt.Errorf("failed to load sentence %d: %w", sentenceID, err)
	}

	analysis, err := s.scorer.Check(sentence.Text, userText)
	if err != nil {
		s.logger.LogError(err, "dictation check failed", "sentence_id", sentenceID)
		return nil, err
	}

	s.logger.Info("dictation sentence checked",
		"sentence_id", sentenceID,
		"score", analysis.Score,
		"band", models.ScoreBand(analysis.Score))
	return analysis, nil
}

// Explain is available regardless of the score; a perfect transcript can
// still be asked about.
func (s *dictationService) Explain(ctx context.Context, userID string, sentenceID uint, userText string) (string, error) {
	sentence, err := s.repo.GetSentence(ctx, sentenceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrSentenceNotFound
		}
		return "", fmt.Errorf("failed to load sentence %d: %w", sentenceID, err)
	}

	return s.explainer.Request(ctx, userID, explain.Context{
		Source:        "dictation",
		Prompt:        sentence.Text,
		UserAnswer:    userText,
		CorrectAnswer: sentence.Text,
	})
}
