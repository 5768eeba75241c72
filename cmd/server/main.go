package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnimkwazeo/quiz-review-service/internal/cache"
	"github.com/hnimkwazeo/quiz-review-service/internal/config"
	"github.com/hnimkwazeo/quiz-review-service/internal/events"
	"github.com/hnimkwazeo/quiz-review-service/internal/explain"
	"github.com/hnimkwazeo/quiz-review-service/internal/handlers"
	"github.com/hnimkwazeo/quiz-review-service/internal/repositories/postgres"
	"github.com/hnimkwazeo/quiz-review-service/internal/scoring"
	"github.com/hnimkwazeo/quiz-review-service/internal/services"
	"github.com/hnimkwazeo/quiz-review-service/internal/session"
	"github.com/hnimkwazeo/quiz-review-service/internal/transcript"
	"github.com/hnimkwazeo/quiz-review-service/internal/utils"
	"github.com/hnimkwazeo/quiz-review-service/internal/validator"
	"github.com/hnimkwazeo/quiz-review-service/pkg"
)

const transcriptTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		log.Fatal(err)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		log.Fatal(err)
	}
	defer redisClient.Close()

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, logger)
	transcriptLog := transcript.NewRedisLog(redisClient, transcriptTTL)

	publisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.KafkaTopic,
		Logger:       utils.ToSlogLogger(logger),
	})
	if err != nil {
		logger.Error("failed to create kafka publisher", "error", err)
		log.Fatal(err)
	}
	defer publisher.Close()

	scoringClient := scoring.NewHTTPClient(cfg.ScoringBaseURL)
	explainer := explain.NewService(cfg.AI, transcriptLog, publisher, logger)

	sessionManager := session.NewManager(session.Deps{
		Scoring:   scoringClient,
		Explainer: explainer,
		Publisher: publisher,
		Records:   repo.AttemptRecord(),
		Logger:    logger,
	})

	quizService := services.NewQuizService(repo.Quiz(), cacheService, logger)
	dictationService := services.NewDictationService(repo.Dictation(), explainer, logger)
	exportService := services.NewExportService(repo.AttemptRecord(), quizService, logger)

	handlerManager := handlers.NewHandlerManager(
		sessionManager,
		quizService,
		dictationService,
		exportService,
		transcriptLog,
		validator.New(),
		logger,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager.SetupRoutes(router)

	logger.Info("starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		log.Fatal(err)
	}
}
