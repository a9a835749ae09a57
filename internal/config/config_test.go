package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 環境変数を書き換えるため t.Parallel() は使わない。

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://api.twelvedata.com", cfg.TwelveDataBaseURL)
	assert.Equal(t, "1day", cfg.MarketInterval)
	assert.Equal(t, 3, cfg.LookbackDays)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DefaultNewsSources, cfg.NewsSources)
	assert.Equal(t, 3, cfg.NewsCutoffDays)
	assert.Equal(t, 15, cfg.NewsMatchedCap)
	assert.Equal(t, 10, cfg.NewsFallbackCap)
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "AUDCAD", "GBPCAD"}, cfg.Pairs)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.True(t, cfg.EmailDryRun, "mail should default to dry run")
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "fx_traces.db", cfg.SQLitePath)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TWELVEDATA_API_KEY", "key-123")
	t.Setenv("MARKET_INTERVAL", "1h")
	t.Setenv("PAIRS", "EURUSD, USDJPY ,")
	t.Setenv("NEWS_SOURCES", "https://example.com/feed.xml")
	t.Setenv("PIPELINE_RETRIES", "5")
	t.Setenv("RETRY_DELAY_SECONDS", "0.5")
	t.Setenv("EMAIL_DRYRUN", "false")
	t.Setenv("PORT", "9090")

	cfg := Load()

	assert.Equal(t, "key-123", cfg.TwelveDataAPIKey)
	assert.Equal(t, "1h", cfg.MarketInterval)
	assert.Equal(t, []string{"EURUSD", "USDJPY"}, cfg.Pairs)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.NewsSources)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.False(t, cfg.EmailDryRun)
	assert.Equal(t, ":9090", cfg.ListenAddr())
}

// TestLoad_MalformedValuesFallBack は解釈できない値が既定値に退避することを検証します。
func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PIPELINE_RETRIES", "many")
	t.Setenv("RETRY_DELAY_SECONDS", "soon")
	t.Setenv("EMAIL_DRYRUN", "probably")

	cfg := Load()

	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.True(t, cfg.EmailDryRun)
}

func TestConfig_RedisAddr(t *testing.T) {
	t.Run("empty host yields empty addr", func(t *testing.T) {
		cfg := &Config{RedisPort: "6379"}
		assert.Empty(t, cfg.RedisAddr())
	})

	t.Run("host and port joined", func(t *testing.T) {
		cfg := &Config{RedisHost: "localhost", RedisPort: "6380"}
		assert.Equal(t, "localhost:6380", cfg.RedisAddr())
	})
}

func TestLoad_RedisFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg := Load()

	require.Equal(t, "cache.internal", cfg.RedisHost)
	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr())
}
