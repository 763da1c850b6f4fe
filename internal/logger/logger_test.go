package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelterline/shelter-engine/internal/config"
)

func logLine(cfg *config.Config) string {
	var buf bytes.Buffer
	l := slog.New(newHandler(cfg, &buf))
	l.Info("shelter check", "day", 3)
	return buf.String()
}

func TestHandlerFormatByEnvironment(t *testing.T) {
	prod := logLine(&config.Config{Environment: "production"})
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(prod), &entry))
	assert.Equal(t, "shelter check", entry["msg"])

	dev := logLine(&config.Config{Environment: "development"})
	assert.Error(t, json.Unmarshal([]byte(dev), &entry))
	assert.Contains(t, dev, "msg=\"shelter check\"")
}

func TestHandlerFormatOverride(t *testing.T) {
	// Explicit format beats the environment default both ways.
	forcedText := logLine(&config.Config{Environment: "production", LogFormat: "text"})
	assert.Contains(t, forcedText, "msg=\"shelter check\"")

	forcedJSON := logLine(&config.Config{Environment: "development", LogFormat: "json"})
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(forcedJSON), &entry))
	assert.Equal(t, "shelter check", entry["msg"])
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newHandler(&config.Config{LogLevel: slog.LevelWarn}, &buf))
	l.Info("dropped")
	l.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
