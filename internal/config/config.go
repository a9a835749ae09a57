// Package config は環境変数からのアプリケーション設定読み込みを提供します。
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultNewsSources は既定で購読する為替ニュースのRSSフィードです。
var DefaultNewsSources = []string{
	"https://www.fxstreet.com/rss/news",
	"https://www.investing.com/rss/news_25.rss",
	"https://www.dailyfx.com/feeds/market-news",
}

// Config holds all application configuration
type Config struct {
	// TwelveData
	TwelveDataAPIKey   string
	TwelveDataBaseURL  string
	MarketInterval     string
	LookbackDays       int
	RequestTimeout     time.Duration
	RateLimitPerMinute int

	// News
	NewsSources     []string
	NewsCutoffDays  int
	NewsMatchedCap  int
	NewsFallbackCap int

	// Pipeline
	Pairs        []string
	AllowedPairs []string
	Retries      int
	RetryDelay   time.Duration

	// Mail
	EmailTo     string
	EmailFrom   string
	EmailDryRun bool
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string

	// Storage
	DatabaseDSN   string
	SQLitePath    string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Serving
	Port string
}

// Load initializes configuration from environment variables
func Load() *Config {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		TwelveDataAPIKey:   os.Getenv("TWELVEDATA_API_KEY"),
		TwelveDataBaseURL:  getEnvWithDefault("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
		MarketInterval:     getEnvWithDefault("MARKET_INTERVAL", "1day"),
		LookbackDays:       getEnvIntWithDefault("LOOKBACK_DAYS", 3),
		RequestTimeout:     time.Duration(getEnvIntWithDefault("REQUEST_TIMEOUT", 30)) * time.Second,
		RateLimitPerMinute: getEnvIntWithDefault("RATE_LIMIT_PER_MINUTE", 8),

		NewsSources:     getEnvListWithDefault("NEWS_SOURCES", DefaultNewsSources),
		NewsCutoffDays:  getEnvIntWithDefault("NEWS_CUTOFF_DAYS", 3),
		NewsMatchedCap:  getEnvIntWithDefault("NEWS_MATCHED_CAP", 15),
		NewsFallbackCap: getEnvIntWithDefault("NEWS_FALLBACK_CAP", 10),

		Pairs:        getEnvListWithDefault("PAIRS", []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "AUDCAD", "GBPCAD"}),
		AllowedPairs: getEnvListWithDefault("ALLOWED_PAIRS", nil),
		Retries:      getEnvIntWithDefault("PIPELINE_RETRIES", 3),
		RetryDelay:   time.Duration(getEnvFloatWithDefault("RETRY_DELAY_SECONDS", 1.0) * float64(time.Second)),

		EmailTo:     os.Getenv("EMAIL_TO"),
		EmailFrom:   getEnvWithDefault("EMAIL_FROM", "fx-backend@localhost"),
		EmailDryRun: getEnvBoolWithDefault("EMAIL_DRYRUN", true),
		SMTPHost:    getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnvIntWithDefault("SMTP_PORT", 587),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),

		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		SQLitePath:    getEnvWithDefault("SQLITE_PATH", "fx_traces.db"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvWithDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Port: getEnvWithDefault("PORT", "8080"),
	}

	return cfg
}

// RedisAddr はRedisの接続アドレスを返します。ホスト未設定なら空文字です。
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// ListenAddr はHTTPサーバのリッスンアドレスを返します。
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

// Helper functions for environment variable handling

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
