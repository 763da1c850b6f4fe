package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shelterline/shelter-engine/internal/services"
	"github.com/shelterline/shelter-engine/internal/storage"
	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/prompts"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func setupDayHandler(t *testing.T, mock *services.MockGenerationService) (*DayHandler, *storage.MemoryStore) {
	t.Helper()

	logger := testLogger()
	store := storage.NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"Mother", "Father", "Daughter"} {
		if err := store.Save(ctx, survivor.New(name)); err != nil {
			t.Fatalf("Failed to seed survivor: %v", err)
		}
	}
	for _, res := range []string{"food", "water", "supplies"} {
		if err := store.SetLevel(ctx, res, 10); err != nil {
			t.Fatalf("Failed to seed resource: %v", err)
		}
	}

	interp := event.NewInterpreter(store, store, nil, logger)
	orch := daycycle.New(
		daycycle.Config{DilemmaChance: 0, FamilyRequestChance: 0},
		mock,
		prompts.NewComposer(),
		interp,
		store,
		store,
		store,
		nil,
		nil,
		logger,
		rand.New(rand.NewPCG(3, 9)),
	)

	return NewDayHandler(orch, logger), store
}

func TestDayHandler_PrepareAndStatus(t *testing.T) {
	h, _ := setupDayHandler(t, services.NewMockGenerationService())

	body := bytes.NewBufferString(`{"day": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/day", body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var state daycycle.DailyActionState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if state.Day != 1 {
		t.Errorf("Expected day 1, got %d", state.Day)
	}
	if !state.Categories[daycycle.CategoryExploration].Active {
		t.Error("Expected exploration to be active")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/day", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var status DayStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if status.State.Day != 1 || status.Pending != 0 {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestDayHandler_StatusWithoutDay(t *testing.T) {
	h, _ := setupDayHandler(t, services.NewMockGenerationService())

	req := httptest.NewRequest(http.MethodGet, "/v1/day", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDayHandler_SubmitFlow(t *testing.T) {
	mock := services.NewMockGenerationService()
	mock.CompleteFunc = func(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error) {
		return `{"title":"Scrap Run","description":"They came back with their arms full.","effects":[{"effectType":"AddSupplies","intensity":5,"target":""}]}`, 40, nil
	}
	h, store := setupDayHandler(t, mock)

	req := httptest.NewRequest(http.MethodPost, "/v1/day", bytes.NewBufferString(`{"day": 1}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to prepare day: %d", w.Code)
	}

	submitBody := `{"category": "exploration", "input": "strip the hardware store"}`
	req = httptest.NewRequest(http.MethodPost, "/v1/day/submit", bytes.NewBufferString(submitBody))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	// The generation round trip is asynchronous
	deadline := time.Now().Add(2 * time.Second)
	for h.orchestrator.Pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	results := h.orchestrator.Results()
	res, ok := results[daycycle.CategoryExploration]
	if !ok || res.Failed() {
		t.Fatalf("Expected successful exploration result, got %+v", res)
	}

	levels, err := store.Levels(context.Background())
	if err != nil {
		t.Fatalf("Failed to read levels: %v", err)
	}
	if levels["supplies"] <= 10 {
		t.Errorf("Expected supplies to increase past 10, got %d", levels["supplies"])
	}
}

func TestDayHandler_SubmitOutlivesRequest(t *testing.T) {
	// A real server cancels the request context once the 202 is written.
	// The generation call must not inherit that cancellation.
	mock := services.NewMockGenerationService()
	mock.CompleteFunc = func(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error) {
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		case <-time.After(100 * time.Millisecond):
			return `{"title":"Night Watch","description":"Nothing moved until dawn.","effects":[]}`, 25, nil
		}
	}
	h, _ := setupDayHandler(t, mock)

	server := httptest.NewServer(h)
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/day", "application/json",
		bytes.NewBufferString(`{"day": 1}`))
	if err != nil {
		t.Fatalf("Failed to prepare day: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	resp, err = http.Post(server.URL+"/v1/day/submit", "application/json",
		bytes.NewBufferString(`{"category": "exploration", "input": "hold the barricade"}`))
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.orchestrator.Pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	res, ok := h.orchestrator.Results()[daycycle.CategoryExploration]
	if !ok {
		t.Fatal("Expected exploration result to be recorded")
	}
	if res.Failed() {
		t.Fatalf("Expected submission to survive request teardown, got error %q", res.Error)
	}
	if res.Event.Title != "Night Watch" {
		t.Errorf("Unexpected event title %q", res.Event.Title)
	}
}

func TestDayHandler_SubmitErrors(t *testing.T) {
	h, _ := setupDayHandler(t, services.NewMockGenerationService())

	// Submit before any day is prepared
	req := httptest.NewRequest(http.MethodPost, "/v1/day/submit",
		bytes.NewBufferString(`{"category": "exploration", "input": "scout"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 before prepare, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/day", bytes.NewBufferString(`{"day": 1}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to prepare day: %d", w.Code)
	}

	// Unknown category
	req = httptest.NewRequest(http.MethodPost, "/v1/day/submit",
		bytes.NewBufferString(`{"category": "weather", "input": "pray"}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown category, got %d", w.Code)
	}

	// Empty input
	req = httptest.NewRequest(http.MethodPost, "/v1/day/submit",
		bytes.NewBufferString(`{"category": "exploration", "input": "   "}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty input, got %d", w.Code)
	}

	// Inactive category (dilemma chance is 0)
	req = httptest.NewRequest(http.MethodPost, "/v1/day/submit",
		bytes.NewBufferString(`{"category": "dilemma", "input": "decide"}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for inactive category, got %d", w.Code)
	}

	// Bad day number
	req = httptest.NewRequest(http.MethodPost, "/v1/day", bytes.NewBufferString(`{"day": 0}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for day 0, got %d", w.Code)
	}

	// Day beyond the run length
	req = httptest.NewRequest(http.MethodPost, "/v1/day", bytes.NewBufferString(`{"day": 31}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for day past the run, got %d", w.Code)
	}
}

func TestDayHandler_DraftThenSubmitAll(t *testing.T) {
	h, _ := setupDayHandler(t, services.NewMockGenerationService())

	req := httptest.NewRequest(http.MethodPost, "/v1/day", bytes.NewBufferString(`{"day": 2}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to prepare day: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/day/draft",
		bytes.NewBufferString(`{"category": "exploration", "input": "check the rooftops"}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204 for draft, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/day/submit-all", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202 for submit-all, got %d: %s", w.Code, w.Body.String())
	}

	var resp SubmitAllResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode submit-all response: %v", err)
	}
	if len(resp.Submitted) != 1 || resp.Submitted[0] != daycycle.CategoryExploration {
		t.Errorf("Expected exploration to be submitted, got %v", resp.Submitted)
	}
}
