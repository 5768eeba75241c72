package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/render"
	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/session"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	manager       *session.Manager
	quizService   services.QuizService
	exportService services.ExportService
	validator     *validator.Validator
}

type CreateSessionRequest struct {
	QuizID uint `json:"quiz_id" validate:"required,min=1"`
}

type ExplanationResponse struct {
	Explanation string `json:"explanation"`
}

func NewSessionHandler(
	manager *session.Manager,
	quizService services.QuizService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:   NewBaseHandler(logger),
		manager:       manager,
		quizService:   quizService,
		exportService: exportService,
		validator:     validator,
	}
}

// CreateSession starts a review session for a quiz. A failed attempt start
// still registers the session in its error state, so the client receives the
// session view either way and can show what happened.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.LogRequest(c, "Creating review session", "quiz_id", req.QuizID)

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), req.QuizID)
	if err != nil {
		if services.IsNotFound(err) {
			h.RespondWithError(c, http.StatusNotFound, "Quiz not found", err)
			return
		}
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to load quiz", err)
		return
	}

	controller, err := h.manager.Create(c.Request.Context(), quiz, userID)
	if err != nil {
		if errors.Is(err, session.ErrEmptyQuiz) {
			h.RespondWithError(c, http.StatusUnprocessableEntity, "Quiz has no questions", err)
			return
		}
		if services.IsFatal(err) {
			// Start failure: the session exists in its error state.
			h.LogError(c, err, "Session started in error state", "session_id", controller.ID())
			c.JSON(http.StatusCreated, controller.View())
			return
		}
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, controller.View())
}

// GetSession returns the current session snapshot
func (h *SessionHandler) GetSession(c *gin.Context) {
	controller := h.lookup(c)
	if controller == nil {
		return
	}
	c.JSON(http.StatusOK, controller.View())
}

// SubmitAnswer judges the answer for the current question
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	controller := h.lookup(c)
	if controller == nil {
		return
	}

	var input render.AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := controller.SubmitAnswer(input); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, controller.View())
}

// ContinueSession clears feedback and advances, or triggers the final submit
// on the last question.
func (h *SessionHandler) ContinueSession(c *gin.Context) {
	controller := h.lookup(c)
	if controller == nil {
		return
	}

	if err := controller.Continue(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, controller.View())
}

// RetrySubmit re-sends the final answers after a failed submit
func (h *SessionHandler) RetrySubmit(c *gin.Context) {
	controller := h.lookup(c)
	if controller == nil {
		return
	}

	if err := controller.RetrySubmit(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, controller.View())
}

// ExplainAnswer requests an AI explanation for the currently judged answer
func (h *SessionHandler) ExplainAnswer(c *gin.Context) {
	controller := h.lookup(c)
	if controller == nil {
		return
	}

	explanation, err := controller.RequestExplanation(c.Request.Context())
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Explanation generated", ExplanationResponse{Explanation: explanation})
}

// CloseSession drops the session; late effects of in-flight calls are discarded
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID := parseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.manager.Remove(sessionID)
	c.Status(http.StatusNoContent)
}

// ExportAttempt downloads the results of a submitted attempt as a workbook
func (h *SessionHandler) ExportAttempt(c *gin.Context) {
	attemptID := parseStringIDParam(c, "attempt_id")
	if attemptID == "" {
		return
	}

	h.LogRequest(c, "Exporting attempt results", "attempt_id", attemptID)

	payload, err := h.exportService.ExportAttempt(c.Request.Context(), attemptID)
	if err != nil {
		if services.IsNotFound(err) {
			h.RespondWithError(c, http.StatusNotFound, "Attempt not found", err)
			return
		}
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to export attempt", err)
		return
	}

	filename := fmt.Sprintf("attempt-%s.xlsx", attemptID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

func (h *SessionHandler) lookup(c *gin.Context) *session.Controller {
	sessionID := parseStringIDParam(c, "id")
	if sessionID == "" {
		return nil
	}

	controller, err := h.manager.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})
		return nil
	}
	return controller
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case errors.Is(err, session.ErrClosed):
		h.RespondWithError(c, http.StatusGone, "Session is closed", err)
	case errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNotSubmitting),
		errors.Is(err, session.ErrNoFeedback),
		errors.Is(err, session.ErrSubmitInFlight):
		h.RespondWithError(c, http.StatusConflict, "Operation not valid in current session state", err)
	case errors.Is(err, render.ErrMissingSelection),
		errors.Is(err, render.ErrMissingText),
		errors.Is(err, render.ErrUnsupportedType):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid answer for this question", err)
	case services.IsRetryable(err):
		h.RespondWithError(c, http.StatusBadGateway, "Attempt submission failed, retry available", err)
	case services.IsNonFatal(err):
		h.RespondWithError(c, http.StatusBadGateway, "Explanation service unavailable", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
