package models

import (
	"time"

	"gorm.io/gorm"
)

// DictationSentence is one sentence of a dictation topic. Learners transcribe
// the audio and have their text checked against Text.
type DictationSentence struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	TopicID  uint    `json:"topic_id" gorm:"not null;index"`
	Text     string  `json:"text" gorm:"not null;type:text"`
	AudioURL *string `json:"audio_url" gorm:"size:500"`
	Order    int     `json:"order" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (DictationSentence) TableName() string { return "dictation_sentences" }

type DiffType string

const (
	DiffEqual  DiffType = "equal"
	DiffInsert DiffType = "insert"
	DiffDelete DiffType = "delete"
)

type DiffSegment struct {
	Type DiffType `json:"type"`
	Text string   `json:"text"`
}

// NlpAnalysis is the scored result for one checked dictation sentence.
// A re-check replaces the whole analysis; nothing is merged.
type NlpAnalysis struct {
	Score        int           `json:"score" validate:"min=0,max=100"`
	Diffs        []DiffSegment `json:"diffs"`
	Explanations []string      `json:"explanations"`
}

// ScoreBand maps a score to the display color used by the feedback tag:
// above 80 green, above 50 orange, everything else red.
func ScoreBand(score int) string {
	switch {
	case score > 80:
		return "green"
	case score > 50:
		return "orange"
	default:
		return "red"
	}
}
