package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hnimkwazeo/quiz-review-service/internal/cache"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
)

const quizCacheTTL = 10 * time.Minute

// QuizService loads quiz payloads for new sessions: cache first, then the
// read model, with the defensive load-time checks applied on the way in.
type QuizService interface {
	GetQuiz(ctx context.Context, id uint) (*models.Quiz, error)
}

type quizService struct {
	repo          repositories.QuizRepository
	cache         cache.CacheService
	quizValidator *validator.QuizValidator
	logger        utils.Logger
}

func NewQuizService(repo repositories.QuizRepository, cacheService cache.CacheService, logger utils.Logger) QuizService {
	return &quizService{
		repo:          repo,
		cache:         cacheService,
		quizValidator: validator.NewQuizValidator(),
		logger:        logger,
	}
}

func (s *quizService) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	cacheKey := fmt.Sprintf("quiz:%d", id)

	if s.cache != nil {
		var cached models.Quiz
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.LogError(err, "quiz cache read failed", "quiz_id", id)
		}
	}

	quiz, err := s.repo.GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", id, err)
	}

	// Server-authored invariants are checked, not trusted. A violation only
	// degrades the affected question, so it is logged rather than rejected.
	for _, degrade := range s.quizValidator.CheckQuiz(quiz) {
		s.logger.Warn("quiz question degraded",
			"quiz_id", id,
			"question_id", degrade.QuestionID,
			"reason", degrade.Reason)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, quiz, quizCacheTTL); err != nil {
			s.logger.LogError(err, "quiz cache write failed", "quiz_id", id)
		}
	}

	return quiz, nil
}
