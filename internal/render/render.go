// Package render builds the client-facing view of a question and parses the
// answer payload the client sends back. One renderer exists per question
// type; the mapping is a closed switch with a placeholder fallback so an
// unknown type renders as unsupported instead of crashing the session.
package render

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

var (
	ErrUnsupportedType  = errors.New("unsupported question type")
	ErrMissingSelection = errors.New("answer requires a selected choice")
	ErrMissingText      = errors.New("answer requires answer text")
)

// InputMode tells the client which control collects the answer.
const (
	InputChoice = "choice"
	InputText   = "text"
	InputNone   = "none"
)

// ChoiceView is a Choice with correctness stripped. The correct answer is
// only revealed through the feedback step, never in the rendered question.
type ChoiceView struct {
	ID       uint    `json:"id"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type QuestionView struct {
	ID        uint                `json:"id"`
	Type      models.QuestionType `json:"question_type"`
	Prompt    string              `json:"prompt"`
	Points    int                 `json:"points"`
	AudioURL  *string             `json:"audio_url,omitempty"`
	ImageURL  *string             `json:"image_url,omitempty"`
	Choices   []ChoiceView        `json:"choices,omitempty"`
	WordBank  []string            `json:"word_bank,omitempty"`
	InputMode string              `json:"input_mode"`
	Autoplay  bool                `json:"autoplay,omitempty"`
	Supported bool                `json:"supported"`
}

// AnswerInput is the raw answer payload from the client, before the renderer
// narrows it to the shape its question type expects.
type AnswerInput struct {
	SelectedChoiceID *uint   `json:"selected_choice_id"`
	UserAnswerText   *string `json:"user_answer_text"`
}

// Renderer turns a question into its transport view and collects a submitted
// answer of the type-appropriate shape.
type Renderer interface {
	Render(q *models.Question) *QuestionView
	Collect(q *models.Question, in AnswerInput) (*models.SubmittedAnswer, error)
}

// ForType selects the renderer for a question type. Unknown types get the
// placeholder renderer, which displays but never accepts answers.
func ForType(t models.QuestionType) Renderer {
	switch t {
	case models.MultipleChoiceText:
		return choiceRenderer{}
	case models.MultipleChoiceImage:
		return choiceRenderer{}
	case models.ListeningComprehension:
		return choiceRenderer{autoplay: true}
	case models.FillInBlank:
		return textRenderer{}
	case models.TranslateEnToVi:
		return textRenderer{}
	case models.TranslateViToEn:
		return textRenderer{}
	case models.ListeningTranscription:
		return textRenderer{autoplay: true}
	case models.ArrangeWords:
		return arrangeRenderer{}
	default:
		return unsupportedRenderer{}
	}
}

func baseView(q *models.Question) *QuestionView {
	return &QuestionView{
		ID:        q.ID,
		Type:      q.Type,
		Prompt:    q.Prompt,
		Points:    q.Points,
		AudioURL:  q.AudioURL,
		ImageURL:  q.ImageURL,
		Supported: true,
	}
}

// choiceRenderer covers the multiple-choice family, including listening
// comprehension where the prompt is an audio clip.
type choiceRenderer struct {
	autoplay bool
}

func (r choiceRenderer) Render(q *models.Question) *QuestionView {
	view := baseView(q)
	view.InputMode = InputChoice
	view.Autoplay = r.autoplay

	view.Choices = make([]ChoiceView, len(q.Choices))
	for i, c := range q.Choices {
		view.Choices[i] = ChoiceView{ID: c.ID, Content: c.Content, ImageURL: c.ImageURL}
	}
	return view
}

func (r choiceRenderer) Collect(q *models.Question, in AnswerInput) (*models.SubmittedAnswer, error) {
	if in.SelectedChoiceID == nil {
		return nil, ErrMissingSelection
	}
	return &models.SubmittedAnswer{
		QuestionID:       q.ID,
		SelectedChoiceID: in.SelectedChoiceID,
	}, nil
}

// textRenderer covers the free-text family. Collection happens on an explicit
// submit from the client, never per keystroke.
type textRenderer struct {
	autoplay bool
}

func (r textRenderer) Render(q *models.Question) *QuestionView {
	view := baseView(q)
	view.InputMode = InputText
	view.Autoplay = r.autoplay
	return view
}

func (r textRenderer) Collect(q *models.Question, in AnswerInput) (*models.SubmittedAnswer, error) {
	if in.UserAnswerText == nil {
		return nil, ErrMissingText
	}
	return &models.SubmittedAnswer{
		QuestionID:     q.ID,
		UserAnswerText: in.UserAnswerText,
	}, nil
}

// arrangeRenderer presents the reference sentence as a shuffled word bank.
// The shuffle is seeded by question id so re-renders of the same question
// show the same order.
type arrangeRenderer struct{}

func (r arrangeRenderer) Render(q *models.Question) *QuestionView {
	view := baseView(q)
	view.InputMode = InputText

	if q.CorrectSentence != nil {
		words := strings.Fields(*q.CorrectSentence)
		rng := rand.New(rand.NewSource(int64(q.ID)))
		rng.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
		view.WordBank = words
	}
	return view
}

func (r arrangeRenderer) Collect(q *models.Question, in AnswerInput) (*models.SubmittedAnswer, error) {
	if in.UserAnswerText == nil {
		return nil, ErrMissingText
	}
	return &models.SubmittedAnswer{
		QuestionID:     q.ID,
		UserAnswerText: in.UserAnswerText,
	}, nil
}

// unsupportedRenderer is the forward-compatibility escape hatch for question
// types this build does not know.
type unsupportedRenderer struct{}

func (r unsupportedRenderer) Render(q *models.Question) *QuestionView {
	return &QuestionView{
		ID:        q.ID,
		Type:      q.Type,
		Prompt:    "This question type is not supported yet.",
		InputMode: InputNone,
		Supported: false,
	}
}

func (r unsupportedRenderer) Collect(q *models.Question, in AnswerInput) (*models.SubmittedAnswer, error) {
	return nil, ErrUnsupportedType
}
