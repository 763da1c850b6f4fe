package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the shelter engine API.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	// LogFormat forces "json" or "text" output; empty picks by
	// environment.
	LogFormat string

	LLMProvider     string
	AnthropicAPIKey string
	VeniceAPIKey    string
	ModelName       string

	RedisURL string
	DataDir  string

	Tuning Tuning
}

// Tuning holds the day-cycle knobs that shape a run.
type Tuning struct {
	TotalDays            int
	DilemmaChance        float64
	FamilyRequestChance  float64
	NeedySanityThreshold int
	RequestTimeout       time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(os.Getenv("LOG_FORMAT")),

		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		VeniceAPIKey:    os.Getenv("VENICE_API_KEY"),
		ModelName:       getEnv("MODEL_NAME", "claude-sonnet-4-20250514"),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		Tuning: Tuning{
			TotalDays:            getEnvInt("TOTAL_DAYS", 30),
			DilemmaChance:        getEnvFloat("DILEMMA_CHANCE", 0.4),
			FamilyRequestChance:  getEnvFloat("FAMILY_REQUEST_CHANCE", 0.35),
			NeedySanityThreshold: getEnvInt("NEEDY_SANITY_THRESHOLD", 30),
			RequestTimeout:       getEnvDuration("LLM_REQUEST_TIMEOUT", 60*time.Second),
		},
	}

	if cfg.LogFormat != "" && cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if cfg.Tuning.TotalDays < 1 {
		return nil, fmt.Errorf("TOTAL_DAYS must be at least 1, got %d", cfg.Tuning.TotalDays)
	}
	if cfg.Tuning.DilemmaChance < 0 || cfg.Tuning.DilemmaChance > 1 {
		return nil, fmt.Errorf("DILEMMA_CHANCE must be between 0 and 1, got %g", cfg.Tuning.DilemmaChance)
	}
	if cfg.Tuning.FamilyRequestChance < 0 || cfg.Tuning.FamilyRequestChance > 1 {
		return nil, fmt.Errorf("FAMILY_REQUEST_CHANCE must be between 0 and 1, got %g", cfg.Tuning.FamilyRequestChance)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
