package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hnimkwazeo/quiz-review-service/internal/judge"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

const exportSheetName = "Results"

// ExportService renders the audit row of a submitted attempt as an Excel
// workbook, one row per question. The verdicts are re-derived from the quiz
// read model, so the export stays consistent with what the learner saw.
type ExportService interface {
	ExportAttempt(ctx context.Context, attemptID string) ([]byte, error)
}

type exportService struct {
	attempts    repositories.AttemptRecordRepository
	quizService QuizService
	logger      utils.Logger
}

func NewExportService(attempts repositories.AttemptRecordRepository, quizService QuizService, logger utils.Logger) ExportService {
	return &exportService{
		attempts:    attempts,
		quizService: quizService,
		logger:      logger,
	}
}

func (s *exportService) ExportAttempt(ctx context.Context, attemptID string) ([]byte, error) {
	record, err := s.attempts.GetByAttemptID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to load attempt %s: %w", attemptID, err)
	}

	var answers []models.SubmittedAnswer
	if err := json.Unmarshal(record.Answers, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers for attempt %s: %w", attemptID, err)
	}
	byQuestion := make(map[uint]*models.SubmittedAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	quiz, err := s.quizService.GetQuiz(ctx, record.QuizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []interface{}{"#", "Question", "Type", "Your Answer", "Correct Answer", "Result", "Points"}
	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	totalPoints := 0
	earnedPoints := 0
	for i, question := range quiz.Questions {
		q := question
		answer := byQuestion[q.ID]
		verdict := judge.Judge(&q, answer)

		totalPoints += q.Points
		earned := 0
		result := "Incorrect"
		if verdict.Correct {
			earned = q.Points
			result = "Correct"
		}
		earnedPoints += earned

		row := []interface{}{
			i + 1,
			q.Prompt,
			string(q.Type),
			submittedDisplay(&q, answer),
			verdictDisplay(verdict),
			result,
			earned,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	summaryRow := len(quiz.Questions) + 3
	summaryCell, err := excelize.CoordinatesToCellName(1, summaryRow)
	if err != nil {
		return nil, fmt.Errorf("failed to address summary row: %w", err)
	}
	summary := []interface{}{"Total", "", "", "", "", fmt.Sprintf("%d/%d", earnedPoints, totalPoints), totalPoints}
	if err := f.SetSheetRow(exportSheetName, summaryCell, &summary); err != nil {
		return nil, fmt.Errorf("failed to write summary row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("attempt exported",
		"attempt_id", attemptID,
		"quiz_id", record.QuizID,
		"questions", len(quiz.Questions))
	return buf.Bytes(), nil
}

// submittedDisplay resolves the learner's answer to a printable value.
// Choice ids are mapped back to their display content.
func submittedDisplay(q *models.Question, answer *models.SubmittedAnswer) string {
	if answer == nil {
		return ""
	}
	if answer.SelectedChoiceID != nil {
		for _, choice := range q.Choices {
			if choice.ID == *answer.SelectedChoiceID {
				return choiceDisplay(&choice)
			}
		}
		return fmt.Sprintf("choice %d", *answer.SelectedChoiceID)
	}
	if answer.UserAnswerText != nil {
		return *answer.UserAnswerText
	}
	return ""
}

func verdictDisplay(verdict judge.Verdict) string {
	if verdict.CorrectChoice != nil {
		return choiceDisplay(verdict.CorrectChoice)
	}
	return verdict.CorrectText
}

func choiceDisplay(choice *models.Choice) string {
	if choice.Content != nil {
		return *choice.Content
	}
	if choice.ImageURL != nil {
		return *choice.ImageURL
	}
	return ""
}
