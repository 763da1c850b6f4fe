package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shelterline/shelter-engine/internal/storage"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

func TestFamilyHandler_ServeHTTP(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	mother := survivor.New("Mother")
	if err := store.Save(ctx, mother); err != nil {
		t.Fatalf("Failed to seed survivor: %v", err)
	}
	son := survivor.New("Son")
	son.Kill()
	if err := store.Save(ctx, son); err != nil {
		t.Fatalf("Failed to seed survivor: %v", err)
	}
	if err := store.SetLevel(ctx, "food", 6); err != nil {
		t.Fatalf("Failed to seed resource: %v", err)
	}

	handler := NewFamilyHandler(store, store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/family", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp FamilyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Survivors) != 1 || resp.Survivors[0].Name != "Mother" {
		t.Errorf("Expected only Mother alive, got %+v", resp.Survivors)
	}
	if resp.Resources["food"] != 6 {
		t.Errorf("Expected food 6, got %d", resp.Resources["food"])
	}
}

func TestFamilyHandler_MethodNotAllowed(t *testing.T) {
	store := storage.NewMemoryStore()
	handler := NewFamilyHandler(store, store, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/family", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}
