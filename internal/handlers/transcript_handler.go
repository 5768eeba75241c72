package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
)

type TranscriptHandler struct {
	BaseHandler
	log transcript.Log
}

func NewTranscriptHandler(log transcript.Log, logger utils.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		BaseHandler: NewBaseHandler(logger),
		log:         log,
	}
}

// GetTranscript returns the caller's explanation history, oldest first
func (h *TranscriptHandler) GetTranscript(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	entries, err := h.log.List(c.Request.Context(), userID)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to load transcript", err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Transcript loaded", entries, "entries", len(entries))
}
