package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
)

func TestLoadChallenges_MissingFile(t *testing.T) {
	challenges, err := LoadChallenges(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if challenges != nil {
		t.Error("Expected nil challenges for missing file")
	}
}

func TestLoadChallenges_Valid(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"category": "exploration", "title": "The Ash Fields", "description": "Smoke still rises from the grain silos."},
		{"category": "dilemma", "title": "The Locked Car", "description": "A sedan with supplies inside, and a child's seat in the back."}
	]`
	if err := os.WriteFile(filepath.Join(dir, "challenges.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write challenges file: %v", err)
	}

	challenges, err := LoadChallenges(dir)
	if err != nil {
		t.Fatalf("Failed to load challenges: %v", err)
	}
	if len(challenges) != 2 {
		t.Fatalf("Expected 2 challenges, got %d", len(challenges))
	}
	if challenges[0].Category != daycycle.CategoryExploration {
		t.Errorf("Expected exploration category, got %s", challenges[0].Category)
	}
}

func TestLoadChallenges_BadCategory(t *testing.T) {
	dir := t.TempDir()
	data := `[{"category": "weather", "title": "Storm", "description": "It rains."}]`
	if err := os.WriteFile(filepath.Join(dir, "challenges.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write challenges file: %v", err)
	}

	if _, err := LoadChallenges(dir); err == nil {
		t.Error("Expected error for unknown category")
	}
}
