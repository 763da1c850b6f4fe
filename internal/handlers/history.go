package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shelterline/shelter-engine/internal/storage"
)

// Historian reads the persisted event log.
type Historian interface {
	History(ctx context.Context) ([]storage.EventLogRecord, error)
}

// HistoryHandler serves the run's story so far.
// Routes:
// GET /v1/history - Read the full event log in day order
type HistoryHandler struct {
	log    Historian
	logger *slog.Logger
}

func NewHistoryHandler(log Historian, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		log:    log,
		logger: logger,
	}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	records, err := h.log.History(r.Context())
	if err != nil {
		h.logger.Error("Failed to read event log", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to read history"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if records == nil {
		records = []storage.EventLogRecord{}
	}
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.logger.Error("Failed to encode history response", "error", err)
	}
}
