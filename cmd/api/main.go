package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"persona-llm/internal/config"
	"persona-llm/internal/db"
	apihttp "persona-llm/internal/http"
	"persona-llm/internal/llm"
	"persona-llm/internal/reddit"
	"persona-llm/internal/repository"
	"persona-llm/internal/service"
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

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, logger)

	// Cada request arma su propio gateway: el token no se comparte.
	newGateway := func() reddit.Gateway {
		return reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent, logger)
	}

	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	cache := service.NewMemoryPersonaCache(cacheTTL)
	limiter := service.NewAnalyzeRateLimiter(time.Minute, cfg.RateLimitPerMinute)

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory cache and limiter", zap.Error(err))
		} else {
			cache = service.NewRedisPersonaCache(redisClient, cacheTTL)
			limiter = service.NewRedisAnalyzeRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
		}
		cancel()
	}

	var analysisRepo repository.AnalysisRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		analysisRepo = repository.NewPgAnalysisRepository(pool)
	} else {
		logger.Info("no database configured, analysis history kept in memory")
		analysisRepo = repository.NewMemoryAnalysisRepository()
	}

	personaSvc := service.NewPersonaService(
		newGateway,
		llmClient,
		service.NewPersonaEnricher(),
		cache,
		analysisRepo,
		logger,
		cfg.PostLimit,
	)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Hour)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured, history endpoints are open")
	}

	personaHandler := apihttp.NewPersonaHandler(logger, personaSvc, limiter)
	historyHandler := apihttp.NewHistoryHandler(logger, personaSvc, true)
	authHandler := apihttp.NewAuthHandler(logger, jwtSvc, cfg.AdminKey)
	router := apihttp.NewRouter(logger, personaHandler, historyHandler, authHandler, jwtSvc, cfg.JWTSecret != "")

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
