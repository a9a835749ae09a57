package main

import (
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fx_backend/internal/app/router"
	"fx_backend/internal/config"
	advisoradapters "fx_backend/internal/feature/advisor/adapters"
	"fx_backend/internal/feature/advisor/engine"
	advisorhandler "fx_backend/internal/feature/advisor/transport/handler"
	advisorusecase "fx_backend/internal/feature/advisor/usecase"
	mailadapters "fx_backend/internal/feature/mail/adapters"
	mailusecase "fx_backend/internal/feature/mail/usecase"
	"fx_backend/internal/feature/market/adapters/twelvedata"
	marketusecase "fx_backend/internal/feature/market/usecase"
	"fx_backend/internal/feature/news/adapters/rss"
	newsusecase "fx_backend/internal/feature/news/usecase"
	"fx_backend/internal/feature/pairs"
	"fx_backend/internal/platform/cache"
	"fx_backend/internal/platform/db"
	platformhttp "fx_backend/internal/platform/http"
	platformredis "fx_backend/internal/platform/redis"
	"fx_backend/internal/shared/ratelimiter"
)

func main() {
	cfg := config.Load()

	// db
	conn := db.OpenDB(cfg.DatabaseDSN, cfg.SQLitePath)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword); err != nil {
		log.Println("[WARN] Redis unavailable. Running with in-memory cache only.")
		rdb = nil
	} else {
		rdb = tmp
		if rdb != nil {
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	if cfg.TwelveDataAPIKey == "" {
		log.Println("[WARN] TWELVEDATA_API_KEY is not set. Market fetches will fail and runs degrade to AVOID.")
	}

	httpClient := platformhttp.NewHTTPClient(cfg.RequestTimeout)

	// Repository
	marketRepo := twelvedata.NewTwelveDataMarket(twelvedata.Config{
		APIKey:  cfg.TwelveDataAPIKey,
		BaseURL: cfg.TwelveDataBaseURL,
	}, httpClient)
	feedRepo := rss.NewFeedRepository(httpClient)
	traceRepo := advisoradapters.NewTraceRepository(conn)

	// Usecase
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	marketUC := marketusecase.NewMarketUsecase(marketRepo, limiter, cfg.MarketInterval)
	newsUC := newsusecase.NewNewsUsecase(feedRepo, cfg.NewsSources, cfg.NewsCutoffDays, cfg.NewsMatchedCap, cfg.NewsFallbackCap)
	decider := engine.New(engine.NewVaderScorer())

	smtpCfg := mailadapters.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.EmailFrom,
	}
	dryRun := cfg.EmailDryRun || !smtpCfg.Configured()
	mailUC := mailusecase.NewMailUsecase(mailadapters.NewSMTPMailer(smtpCfg), cfg.EmailTo, dryRun)

	pipeline := advisorusecase.NewPipelineUsecase(marketUC, newsUC, decider, mailUC, traceRepo, cfg.LookbackDays)
	runner := advisorusecase.NewSafeRunner(pipeline, cfg.Retries, cfg.RetryDelay)

	// 推奨キャッシュ（Redisがあればライトスルー）
	store := cache.NewRedisStore(rdb, cache.NewMemoryStore(), "recommendations")

	// Handler
	validator := pairs.NewValidator(cfg.AllowedPairs)
	advisorH := advisorhandler.NewAdvisorHandler(runner, validator, store, traceRepo)

	// ルータ生成
	r := router.NewRouter(advisorH)

	if err := r.Run(cfg.ListenAddr()); err != nil {
		log.Fatal(err)
	}
}
