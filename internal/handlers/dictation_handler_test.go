package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/models"
	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
)

// stubSentenceRepo serves a single sentence; everything else is missing.
type stubSentenceRepo struct {
	sentence *models.DictationSentence
}

func (s stubSentenceRepo) GetSentence(ctx context.Context, id uint) (*models.DictationSentence, error) {
	if s.sentence != nil && s.sentence.ID == id {
		return s.sentence, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func setupDictationRouter(log *transcript.MemoryLog, repo stubSentenceRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewDevelopmentLogger()

	dictationService := services.NewDictationService(repo, explain.NewMockExplainer(log), logger)
	dictationHandler := NewDictationHandler(dictationService, validator.New(), logger)
	transcriptHandler := NewTranscriptHandler(log, logger)

	router := gin.New()
	router.Use(IdentityMiddleware())
	v1 := router.Group("/api/v1")
	v1.POST("/dictation/check", dictationHandler.CheckDictation)
	v1.POST("/dictation/explain", dictationHandler.ExplainDictation)
	v1.GET("/transcript", transcriptHandler.GetTranscript)
	return router
}

func postJSON(router *gin.Engine, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDictationHandler_CheckDictation(t *testing.T) {
	repo := stubSentenceRepo{sentence: &models.DictationSentence{ID: 1, Text: "I have been to Paris"}}

	t.Run("scores the transcript", func(t *testing.T) {
		router := setupDictationRouter(transcript.NewMemoryLog(), repo)

		rec := postJSON(router, "/api/v1/dictation/check", `{"sentence_id":1,"user_text":"I have been to Paris"}`, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var analysis models.NlpAnalysis
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
		assert.Equal(t, 100, analysis.Score)
	})

	t.Run("unknown sentence maps to 404", func(t *testing.T) {
		router := setupDictationRouter(transcript.NewMemoryLog(), repo)

		rec := postJSON(router, "/api/v1/dictation/check", `{"sentence_id":9,"user_text":"anything"}`, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing sentence id fails validation", func(t *testing.T) {
		router := setupDictationRouter(transcript.NewMemoryLog(), repo)

		rec := postJSON(router, "/api/v1/dictation/check", `{"user_text":"anything"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Validation failed", resp.Message)
	})
}

func TestDictationHandler_ExplainDictation(t *testing.T) {
	repo := stubSentenceRepo{sentence: &models.DictationSentence{ID: 1, Text: "I have been to Paris"}}

	t.Run("requires identity", func(t *testing.T) {
		router := setupDictationRouter(transcript.NewMemoryLog(), repo)

		rec := postJSON(router, "/api/v1/dictation/explain", `{"sentence_id":1,"user_text":"I have to Paris"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wraps the explanation in the response envelope", func(t *testing.T) {
		log := transcript.NewMemoryLog()
		router := setupDictationRouter(log, repo)

		rec := postJSON(router, "/api/v1/dictation/explain", `{"sentence_id":1,"user_text":"I have to Paris"}`, "user-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SuccessResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Explanation generated", resp.Message)
		data, ok := resp.Data.(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "mock explanation", data["explanation"])
	})
}

func TestTranscriptHandler_GetTranscript(t *testing.T) {
	repo := stubSentenceRepo{sentence: &models.DictationSentence{ID: 1, Text: "I have been to Paris"}}

	t.Run("requires identity", func(t *testing.T) {
		router := setupDictationRouter(transcript.NewMemoryLog(), repo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcript", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns the caller's entries in the envelope", func(t *testing.T) {
		log := transcript.NewMemoryLog()
		router := setupDictationRouter(log, repo)

		// One explanation first, so the transcript has something to show.
		rec := postJSON(router, "/api/v1/dictation/explain", `{"sentence_id":1,"user_text":"I have to Paris"}`, "user-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcript", nil)
		req.Header.Set("X-User-ID", "user-1")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SuccessResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Transcript loaded", resp.Message)
		entries, ok := resp.Data.([]interface{})
		assert.True(t, ok)
		assert.Len(t, entries, 1)
	})
}
