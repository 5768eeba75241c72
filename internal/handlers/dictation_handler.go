package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
)

type DictationHandler struct {
	BaseHandler
	dictationService services.DictationService
	validator        *validator.Validator
}

type CheckDictationRequest struct {
	SentenceID uint   `json:"sentence_id" validate:"required,min=1"`
	UserText   string `json:"user_text"`
}

func NewDictationHandler(
	dictationService services.DictationService,
	validator *validator.Validator,
	logger utils.Logger,
) *DictationHandler {
	return &DictationHandler{
		BaseHandler:      NewBaseHandler(logger),
		dictationService: dictationService,
		validator:        validator,
	}
}

// CheckDictation scores the learner's transcript against the reference
// sentence and returns the word-level diff.
func (h *DictationHandler) CheckDictation(c *gin.Context) {
	var req CheckDictationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleDictationError(c, err)
		return
	}

	h.LogRequest(c, "Checking dictation", "sentence_id", req.SentenceID)

	analysis, err := h.dictationService.Check(c.Request.Context(), req.SentenceID, req.UserText)
	if err != nil {
		h.handleDictationError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ExplainDictation asks for an AI explanation of the learner's transcript
func (h *DictationHandler) ExplainDictation(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	var req CheckDictationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleDictationError(c, err)
		return
	}

	h.LogRequest(c, "Explaining dictation", "sentence_id", req.SentenceID)

	explanation, err := h.dictationService.Explain(c.Request.Context(), userID, req.SentenceID, req.UserText)
	if err != nil {
		h.handleDictationError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Explanation generated", ExplanationResponse{Explanation: explanation})
}

func (h *DictationHandler) handleDictationError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Sentence not found", err)
	case services.IsRetryable(err):
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Sentence cannot be scored", err)
	case services.IsNonFatal(err):
		h.RespondWithError(c, http.StatusBadGateway, "Explanation service unavailable", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
