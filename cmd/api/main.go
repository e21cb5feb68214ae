package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"typeforge/internal/cache"
	"typeforge/internal/config"
	"typeforge/internal/db"
	"typeforge/internal/domain"
	apihttp "typeforge/internal/http"
	"typeforge/internal/repository"
	"typeforge/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)
	careerRepo := repository.NewPgCareerRepository(pool)

	var questionRepo repository.QuestionRepository = repository.NewPgQuestionRepository(pool)
	var typeRepo repository.PersonalityTypeRepository = repository.NewPgPersonalityTypeRepository(pool)

	var (
		limiter     service.SubmissionRateLimiter
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	rateWindow := time.Duration(cfg.SubmitRateWindowSec) * time.Second
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisSubmissionRateLimiter(redisClient, rateWindow, cfg.SubmitRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			cacheTTL := time.Duration(cfg.CacheTTLMin) * time.Minute
			questionRepo = cache.NewCachedQuestionRepository(questionRepo, redisClient, cacheTTL, logger)
			typeRepo = cache.NewCachedPersonalityTypeRepository(typeRepo, redisClient, cacheTTL, logger)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewSubmissionRateLimiter(rateWindow, cfg.SubmitRateMax)
	}

	tokenSvc := service.NewTokenServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	if cfg.AdminPasswordHash == "" {
		logger.Warn("admin password hash not configured, admin login disabled")
	}

	machine := service.NewStateMachine(sessionRepo, answerRepo, questionRepo, careerRepo, logger)
	sessionDefaults := service.SessionDefaults{
		Mode:     domain.DeploymentMode(cfg.DeploymentMode),
		Language: cfg.DefaultLanguage,
	}
	assessmentSvc := service.NewAssessmentService(machine, sessionRepo, answerRepo, questionRepo, typeRepo, careerRepo, sessionDefaults, logger)
	careerSvc := service.NewCareerService(sessionRepo, careerRepo, logger)
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, tokenSvc, logger)

	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc, limiter)
	careerHandler := apihttp.NewCareerHandler(logger, careerSvc)
	adminHandler := apihttp.NewAdminHandler(logger, authSvc, assessmentSvc)
	router := apihttp.NewRouter(logger, assessmentHandler, careerHandler, adminHandler, tokenSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
