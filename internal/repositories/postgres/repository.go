package postgres

import (
	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
)

type repository struct {
	quiz      repositories.QuizRepository
	attempt   repositories.AttemptRecordRepository
	dictation repositories.DictationRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:      NewQuizPostgreSQL(db),
		attempt:   NewAttemptRecordPostgreSQL(db),
		dictation: NewDictationPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository                   { return r.quiz }
func (r *repository) AttemptRecord() repositories.AttemptRecordRepository { return r.attempt }
func (r *repository) Dictation() repositories.DictationRepository         { return r.dictation }
