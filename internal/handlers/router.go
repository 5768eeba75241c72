package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/session"
	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
)

type HandlerManager struct {
	quizHandler       *QuizHandler
	sessionHandler    *SessionHandler
	dictationHandler  *DictationHandler
	transcriptHandler *TranscriptHandler
}

func NewHandlerManager(
	sessionManager *session.Manager,
	quizService services.QuizService,
	dictationService services.DictationService,
	exportService services.ExportService,
	transcriptLog transcript.Log,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:       NewQuizHandler(quizService, logger),
		sessionHandler:    NewSessionHandler(sessionManager, quizService, exportService, validator, logger),
		dictationHandler:  NewDictationHandler(dictationService, validator, logger),
		transcriptHandler: NewTranscriptHandler(transcriptLog, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(IdentityMiddleware())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/continue", hm.sessionHandler.ContinueSession)
			sessions.POST("/:id/submit", hm.sessionHandler.RetrySubmit)
			sessions.POST("/:id/explain", hm.sessionHandler.ExplainAnswer)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
		}

		// Attempt export
		attempts := v1.Group("/attempts")
		{
			attempts.GET("/:attempt_id/export", hm.sessionHandler.ExportAttempt)
		}

		// Dictation routes
		dictation := v1.Group("/dictation")
		{
			dictation.POST("/check", hm.dictationHandler.CheckDictation)
			dictation.POST("/explain", hm.dictationHandler.ExplainDictation)
		}

		// Transcript routes
		v1.GET("/transcript", hm.transcriptHandler.GetTranscript)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-review-service",
		})
	})
}
