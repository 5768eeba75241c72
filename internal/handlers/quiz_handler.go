package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/render"
	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

// QuizResponse is the read-only quiz preview. Questions go through the
// renderers so answer keys never leave the service.
type QuizResponse struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description,omitempty"`
	Questions   []render.QuestionView `json:"questions"`
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// GetQuiz returns the quiz preview with rendered questions
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := parseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	h.LogRequest(c, "Fetching quiz", "quiz_id", quizID)

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		if services.IsNotFound(err) {
			h.RespondWithError(c, http.StatusNotFound, "Quiz not found", err)
			return
		}
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to load quiz", err)
		return
	}

	resp := QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   make([]render.QuestionView, 0, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		resp.Questions = append(resp.Questions, *render.ForType(question.Type).Render(question))
	}

	c.JSON(http.StatusOK, resp)
}
