// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Backends
	APIBaseURL string
	TaggingURL string
	RedisURL   string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Uploads
	MaxUploadMB int64

	// Frontend origin for CORS
	FrontendURL string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
		TaggingURL: getEnv("TAGGING_URL", ""),
		RedisURL:   getEnv("REDIS_URL", ""),

		SessionSecret: getEnv("SESSION_SECRET", "your-secret-key"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),

		MaxUploadMB: int64(getEnvInt("MAX_UPLOAD_MB", 25)),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
