package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, 30, cfg.Tuning.TotalDays)
	assert.InDelta(t, 0.4, cfg.Tuning.DilemmaChance, 0.001)
	assert.Equal(t, 60*time.Second, cfg.Tuning.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DILEMMA_CHANCE", "0.75")
	t.Setenv("TOTAL_DAYS", "14")
	t.Setenv("LLM_REQUEST_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.InDelta(t, 0.75, cfg.Tuning.DilemmaChance, 0.001)
	assert.Equal(t, 14, cfg.Tuning.TotalDays)
	assert.Equal(t, 90*time.Second, cfg.Tuning.RequestTimeout)
}

func TestLoadInvalidChance(t *testing.T) {
	t.Setenv("DILEMMA_CHANCE", "1.5")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "JSON")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)

	t.Setenv("LOG_FORMAT", "xml")
	_, err = Load()
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
