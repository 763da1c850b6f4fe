package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

type FamilyResponse struct {
	Survivors []*survivor.Survivor `json:"survivors"`
	Resources map[string]int       `json:"resources"`
}

// FamilyHandler reports the living family members and the shelter
// stockpiles.
// Routes:
// GET /v1/family - Read current family condition and stockpile levels
type FamilyHandler struct {
	survivors event.SurvivorStore
	resources daycycle.ResourceLevels
	logger    *slog.Logger
}

func NewFamilyHandler(survivors event.SurvivorStore, resources daycycle.ResourceLevels, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{
		survivors: survivors,
		resources: resources,
		logger:    logger,
	}
}

func (h *FamilyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	alive, err := h.survivors.AllAlive(r.Context())
	if err != nil {
		h.logger.Error("Failed to list survivors", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to read family state"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	levels, err := h.resources.Levels(r.Context())
	if err != nil {
		h.logger.Error("Failed to read resource levels", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to read stockpiles"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(FamilyResponse{Survivors: alive, Resources: levels}); err != nil {
		h.logger.Error("Failed to encode family response", "error", err)
	}
}
