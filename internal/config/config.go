package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	FirecrawlAPIKey string
	FirecrawlAPIURL string
	OpenAIKey       string

	ResendAPIKey   string
	AlertFromEmail string

	CronSecret string

	Port        string
	MetricsPort string

	FallbackCurrency string
	WorkerCount      int
	ExtractTimeout   time.Duration
	ExtractCacheTTL  time.Duration
}

func Load() *Config {
	// .env from the project root when run via cmd/*, otherwise cwd
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		FirecrawlAPIKey: os.Getenv("FIRECRAWL_API_KEY"),
		FirecrawlAPIURL: getEnv("FIRECRAWL_API_URL", "https://api.firecrawl.dev"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),

		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		AlertFromEmail: getEnv("ALERT_FROM_EMAIL", "alerts@priceping.dev"),

		CronSecret: os.Getenv("CRON_SECRET"),

		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		FallbackCurrency: getEnv("FALLBACK_CURRENCY", "INR"),
		WorkerCount:      getEnvInt("WORKER_COUNT", 1),
		ExtractTimeout:   getEnvDuration("EXTRACT_TIMEOUT", 60*time.Second),
		ExtractCacheTTL:  getEnvDuration("EXTRACT_CACHE_TTL", 10*time.Minute),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if t, err := time.ParseDuration(v); err == nil {
			return t
		}
	}
	return d
}
