package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoiceText     QuestionType = "MULTIPLE_CHOICE_TEXT"
	MultipleChoiceImage    QuestionType = "MULTIPLE_CHOICE_IMAGE"
	FillInBlank            QuestionType = "FILL_IN_BLANK"
	ListeningComprehension QuestionType = "LISTENING_COMPREHENSION"
	ListeningTranscription QuestionType = "LISTENING_TRANSCRIPTION"
	TranslateEnToVi        QuestionType = "TRANSLATE_EN_TO_VI"
	TranslateViToEn        QuestionType = "TRANSLATE_VI_TO_EN"
	ArrangeWords           QuestionType = "ARRANGE_WORDS"
)

// AllQuestionTypes lists every supported type, in no particular order.
var AllQuestionTypes = []QuestionType{
	MultipleChoiceText,
	MultipleChoiceImage,
	FillInBlank,
	ListeningComprehension,
	ListeningTranscription,
	TranslateEnToVi,
	TranslateViToEn,
	ArrangeWords,
}

// IsChoiceBased reports whether answers to this type are a choice selection.
// Every other supported type is judged against CorrectSentence.
func (t QuestionType) IsChoiceBased() bool {
	switch t {
	case MultipleChoiceText, MultipleChoiceImage, ListeningComprehension:
		return true
	}
	return false
}

// IsSupported reports whether t is one of the eight known types. Unknown
// types still render (as a placeholder) but can never be answered.
func (t QuestionType) IsSupported() bool {
	for _, known := range AllQuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Quiz struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quiz_id" gorm:"not null;index"`
	Type   QuestionType `json:"question_type" gorm:"not null;size:40" validate:"required,question_type"`
	Prompt string       `json:"prompt" gorm:"not null;type:text" validate:"required"`
	Points int          `json:"points" gorm:"default:1" validate:"min=0,max=100"`
	Order  int          `json:"order" gorm:"not null;default:0;index"`

	// Media, present depending on type
	AudioURL *string `json:"audio_url,omitempty" gorm:"size:500"`
	ImageURL *string `json:"image_url,omitempty" gorm:"size:500"`

	// CorrectSentence is the reference answer for the free-text family.
	CorrectSentence *string `json:"correct_sentence,omitempty" gorm:"type:text"`

	// Choices are populated for the choice family only.
	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
}

// Choice carries either text content or an image; at least one is non-nil.
type Choice struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	Content    *string `json:"content" gorm:"type:text"`
	ImageURL   *string `json:"image_url" gorm:"size:500"`
	IsCorrect  bool    `json:"is_correct" gorm:"not null;default:false"`
}

func (Quiz) TableName() string     { return "quizzes" }
func (Question) TableName() string { return "questions" }
func (Choice) TableName() string   { return "choices" }

// CorrectChoice returns the unique correct choice, or nil if the question is
// malformed (none, or more than one). Callers treat nil as "unanswerable
// correctly" rather than an error.
func (q *Question) CorrectChoice() *Choice {
	var found *Choice
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			if found != nil {
				return nil
			}
			found = &q.Choices[i]
		}
	}
	return found
}
