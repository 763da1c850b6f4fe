package services

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewVeniceService(t *testing.T) {
	service := NewVeniceService("test-api-key", "venice-uncensored")

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected API key test-api-key, got %s", service.apiKey)
	}
	if service.modelName != "venice-uncensored" {
		t.Errorf("Expected model name venice-uncensored, got %s", service.modelName)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestVeniceService_InitModel(t *testing.T) {
	service := NewVeniceService("test-key", "venice-uncensored")

	err := service.InitModel(context.Background(), "test-model")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestVeniceService_StoryEventResponseFormat(t *testing.T) {
	service := NewVeniceService("test-key", "venice-uncensored")

	format := service.getStoryEventResponseFormat()
	if format.Type != "json_schema" {
		t.Errorf("Expected type json_schema, got %s", format.Type)
	}
	if !format.JSONSchema.Strict {
		t.Error("Expected strict schema")
	}
	if format.JSONSchema.Name != "story_event" {
		t.Errorf("Expected schema name story_event, got %s", format.JSONSchema.Name)
	}

	// The schema must serialize cleanly for the request body.
	data, err := json.Marshal(format)
	if err != nil {
		t.Fatalf("Failed to marshal response format: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal response format: %v", err)
	}

	required := []string{"title", "description", "effects"}
	schema := format.JSONSchema.Schema
	gotRequired, ok := schema["required"].([]string)
	if !ok {
		t.Fatal("Expected required field list in schema")
	}
	for i, field := range required {
		if gotRequired[i] != field {
			t.Errorf("Expected required field %s, got %s", field, gotRequired[i])
		}
	}
}

func TestVeniceService_RequestShape(t *testing.T) {
	req := VeniceChatRequest{
		Model: "venice-uncensored",
		Messages: []VeniceMessage{
			{Role: "system", Content: "system prompt"},
			{Role: "user", Content: "user prompt"},
		},
		Temperature: 0.0,
		MaxTokens:   DefaultVeniceMaxTokens,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}

	if _, present := decoded["response_format"]; present {
		t.Error("Expected response_format to be omitted when nil")
	}
	if decoded["stream"] != false {
		t.Error("Expected stream false to be serialized")
	}
}
