package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
)

type AttemptRecordPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptRecordPostgreSQL(db *gorm.DB) repositories.AttemptRecordRepository {
	return &AttemptRecordPostgreSQL{db: db}
}

func (r AttemptRecordPostgreSQL) Create(ctx context.Context, record *models.AttemptRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r AttemptRecordPostgreSQL) GetByAttemptID(ctx context.Context, attemptID string) (*models.AttemptRecord, error) {
	var record models.AttemptRecord
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
