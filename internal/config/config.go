package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret          string
	JWTRefreshSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ResetTokenTTL      time.Duration
	LoginAttemptWindow time.Duration

	MeiliSearchHost string
	MeiliMasterKey  string

	NotificationRetention time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:        getEnv("JWT_KEY", "change-me"),
		JWTRefreshSecret: getEnv("JWT_KEY_REFRESH", "change-me-too"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", ""),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),
	}

	var err error
	if cfg.AccessTokenTTL, err = parseDuration(getEnv("ACCESS_TOKEN_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	if cfg.RefreshTokenTTL, err = parseDuration(getEnv("REFRESH_TOKEN_TTL", "336h")); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	}
	if cfg.ResetTokenTTL, err = parseDuration(getEnv("RESET_TOKEN_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: %w", err)
	}
	if cfg.LoginAttemptWindow, err = parseDuration(getEnv("LOGIN_ATTEMPT_WINDOW", "1s")); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_ATTEMPT_WINDOW: %w", err)
	}
	if cfg.NotificationRetention, err = parseDuration(getEnv("NOTIFICATION_RETENTION", "2160h")); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
