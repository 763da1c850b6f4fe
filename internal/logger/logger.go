package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/shelterline/shelter-engine/internal/config"
)

// Setup configures the global slog logger. LOG_FORMAT wins when set;
// otherwise production gets JSON and everything else gets text.
func Setup(cfg *config.Config) *slog.Logger {
	logger := slog.New(newHandler(cfg, os.Stdout))
	slog.SetDefault(logger)
	return logger
}

func newHandler(cfg *config.Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := cfg.LogFormat
	if format == "" {
		if cfg.Environment == "production" {
			format = "json"
		} else {
			format = "text"
		}
	}

	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
