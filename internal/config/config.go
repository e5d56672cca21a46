package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string
	RedisURL string

	// Ranking predictor
	PredictorURL     string
	PredictorTimeout time.Duration
	PredictorRPS     int // client-side throttle, requests per second

	// Suggestion engine knobs
	MinContentThreshold int           // feed views required before a block may be injected
	MinDiffTime         time.Duration // minimum gap between injected blocks
	SuggestAmount       int           // users per injected block

	// Suggestion listing page sizes
	DefaultPageSize int
	MaxPageSize     int

	// Feed assembly
	FeedPageSize int

	// Auth
	JWTSecret string

	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3001"),
		MongoURI: getEnv("MONGODB_URI", ""),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		PredictorURL:     getEnv("PREDICTOR_URL", "http://localhost:8500"),
		PredictorTimeout: getDurationEnv("PREDICTOR_TIMEOUT_MS", 3000),
		PredictorRPS:     getIntEnv("PREDICTOR_RPS", 50),

		MinContentThreshold: getIntEnv("MIN_CONTENT_THRESHOLD", 6),
		MinDiffTime:         getDurationEnv("MIN_DIFF_TIME_MS", 15000),
		SuggestAmount:       getIntEnv("SUGGEST_AMOUNT", 2),

		DefaultPageSize: getIntEnv("SUGGEST_DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     getIntEnv("SUGGEST_MAX_PAGE_SIZE", 50),

		FeedPageSize: getIntEnv("FEED_PAGE_SIZE", 20),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv reads a millisecond-valued env var
func getDurationEnv(key string, defaultMs int) time.Duration {
	return time.Duration(getIntEnv(key, defaultMs)) * time.Millisecond
}
