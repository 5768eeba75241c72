package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC")
		}).
		Preload("Questions.Choices").
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}
