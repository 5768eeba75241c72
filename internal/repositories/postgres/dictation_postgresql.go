package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
)

type DictationPostgreSQL struct {
	db *gorm.DB
}

func NewDictationPostgreSQL(db *gorm.DB) repositories.DictationRepository {
	return &DictationPostgreSQL{db: db}
}

func (r DictationPostgreSQL) GetSentence(ctx context.Context, id uint) (*models.DictationSentence, error) {
	var sentence models.DictationSentence
	if err := r.db.WithContext(ctx).First(&sentence, id).Error; err != nil {
		return nil, err
	}
	return &sentence, nil
}
