package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/item"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PrepareDayRequest struct {
	Day int `json:"day"`
}

type SubmitRequest struct {
	Category daycycle.Category `json:"category"`
	Input    string            `json:"input"`
	Items    []item.Item       `json:"items,omitempty"`
}

type DayStatusResponse struct {
	State   *daycycle.DailyActionState                         `json:"state"`
	Results map[daycycle.Category]*daycycle.PlayerActionResult `json:"results"`
	Pending int                                                `json:"pending"`
}

type SubmitAllResponse struct {
	Submitted []daycycle.Category `json:"submitted"`
}

// DayHandler exposes the day cycle over HTTP.
// Routes:
// POST /v1/day            - Prepare a new day
// GET /v1/day             - Read current day state, results, and pending count
// POST /v1/day/draft      - Save draft input without submitting
// POST /v1/day/submit     - Submit one category
// POST /v1/day/submit-all - Submit every drafted category
type DayHandler struct {
	orchestrator *daycycle.Orchestrator
	logger       *slog.Logger
}

func NewDayHandler(orchestrator *daycycle.Orchestrator, logger *slog.Logger) *DayHandler {
	return &DayHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (h *DayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/v1/day" && r.Method == http.MethodPost:
		h.handlePrepare(w, r)
	case r.URL.Path == "/v1/day" && r.Method == http.MethodGet:
		h.handleStatus(w, r)
	case r.URL.Path == "/v1/day/draft" && r.Method == http.MethodPost:
		h.handleDraft(w, r)
	case r.URL.Path == "/v1/day/submit" && r.Method == http.MethodPost:
		h.handleSubmit(w, r)
	case r.URL.Path == "/v1/day/submit-all" && r.Method == http.MethodPost:
		h.handleSubmitAll(w, r)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *DayHandler) handlePrepare(w http.ResponseWriter, r *http.Request) {
	var req PrepareDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Day < 1 {
		h.writeError(w, http.StatusBadRequest, "Day must be at least 1")
		return
	}

	state, err := h.orchestrator.PrepareDay(r.Context(), req.Day)
	if err != nil {
		if errors.Is(err, daycycle.ErrDayInFlight) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, daycycle.ErrDayOutOfRange) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to prepare day", "error", err, "day", req.Day)
		h.writeError(w, http.StatusInternalServerError, "Failed to prepare day")
		return
	}

	h.logger.Info("Day prepared", "day", req.Day, "active", state.ActiveCategories())
	w.WriteHeader(http.StatusCreated)
	h.encode(w, state)
}

func (h *DayHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := h.orchestrator.State()
	if state == nil {
		h.writeError(w, http.StatusNotFound, "No day prepared")
		return
	}

	h.encode(w, DayStatusResponse{
		State:   state,
		Results: h.orchestrator.Results(),
		Pending: h.orchestrator.Pending(),
	})
}

func (h *DayHandler) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.orchestrator.SaveInput(req.Category, req.Input, req.Items); err != nil {
		h.writeSubmitError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DayHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.orchestrator.Submit(r.Context(), req.Category, req.Input, req.Items); err != nil {
		h.writeSubmitError(w, err)
		return
	}

	h.logger.Info("Category submitted", "category", req.Category)
	w.WriteHeader(http.StatusAccepted)
}

func (h *DayHandler) handleSubmitAll(w http.ResponseWriter, r *http.Request) {
	submitted, err := h.orchestrator.SubmitAll(r.Context())
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	h.logger.Info("Drafts submitted", "categories", submitted)
	w.WriteHeader(http.StatusAccepted)
	h.encode(w, SubmitAllResponse{Submitted: submitted})
}

// writeSubmitError maps orchestrator misuse errors to HTTP statuses.
func (h *DayHandler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, daycycle.ErrUnknownCategory),
		errors.Is(err, daycycle.ErrEmptyInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, daycycle.ErrNotPrepared),
		errors.Is(err, daycycle.ErrInactiveCategory),
		errors.Is(err, daycycle.ErrAlreadySubmitted),
		errors.Is(err, daycycle.ErrDayInFlight):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Submission failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Submission failed")
	}
}

func (h *DayHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	h.encode(w, ErrorResponse{Error: msg})
}

func (h *DayHandler) encode(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
