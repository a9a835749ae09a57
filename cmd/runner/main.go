// 設定されたペア全件に対してパイプラインを一括実行するバッチエントリポイントです。
// cronやワンショット実行向けで、HTTPサーバは起動しません。
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"fx_backend/internal/config"
	advisoradapters "fx_backend/internal/feature/advisor/adapters"
	"fx_backend/internal/feature/advisor/domain/entity"
	"fx_backend/internal/feature/advisor/engine"
	advisorusecase "fx_backend/internal/feature/advisor/usecase"
	mailadapters "fx_backend/internal/feature/mail/adapters"
	mailusecase "fx_backend/internal/feature/mail/usecase"
	"fx_backend/internal/feature/market/adapters/twelvedata"
	marketusecase "fx_backend/internal/feature/market/usecase"
	"fx_backend/internal/feature/news/adapters/rss"
	newsusecase "fx_backend/internal/feature/news/usecase"
	"fx_backend/internal/feature/pairs"
	"fx_backend/internal/platform/db"
	platformhttp "fx_backend/internal/platform/http"
	"fx_backend/internal/shared/ratelimiter"
)

func main() {
	cfg := config.Load()

	validator := pairs.NewValidator(cfg.AllowedPairs)
	validated, err := validator.ValidateAll(cfg.Pairs)
	if err != nil {
		log.Fatalf("invalid PAIRS configuration: %v", err)
	}

	conn := db.OpenDB(cfg.DatabaseDSN, cfg.SQLitePath)
	httpClient := platformhttp.NewHTTPClient(cfg.RequestTimeout)

	marketRepo := twelvedata.NewTwelveDataMarket(twelvedata.Config{
		APIKey:  cfg.TwelveDataAPIKey,
		BaseURL: cfg.TwelveDataBaseURL,
	}, httpClient)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	marketUC := marketusecase.NewMarketUsecase(marketRepo, limiter, cfg.MarketInterval)
	newsUC := newsusecase.NewNewsUsecase(rss.NewFeedRepository(httpClient), cfg.NewsSources, cfg.NewsCutoffDays, cfg.NewsMatchedCap, cfg.NewsFallbackCap)
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

	traceRepo := advisoradapters.NewTraceRepository(conn)
	pipeline := advisorusecase.NewPipelineUsecase(marketUC, newsUC, decider, mailUC, traceRepo, cfg.LookbackDays)

	slog.Info("batch run starting", "pairs", validated, "dry_run_mail", dryRun)

	traces := pipeline.RunForPairs(context.Background(), validated)

	succeeded := 0
	for _, trace := range traces {
		if trace.Status == entity.StatusSuccess {
			succeeded++
		}
		fields := []any{"pair", trace.Pair, "run_id", trace.RunID, "status", trace.Status}
		if trace.Recommendation != nil {
			fields = append(fields, "stance", trace.Recommendation.Stance, "confidence", trace.Recommendation.Confidence)
		}
		if trace.Error != "" {
			fields = append(fields, "error", trace.Error)
		}
		slog.Info("pair completed", fields...)
	}

	slog.Info("batch run finished", "total", len(traces), "succeeded", succeeded, "failed", len(traces)-succeeded)
}
