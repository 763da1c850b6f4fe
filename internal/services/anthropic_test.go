package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-3-sonnet-20240229"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}

	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_InitModel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-3-sonnet-20240229", log)

	err := service.InitModel(context.Background(), "test-model")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestAnthropicService_StructuredTemperature(t *testing.T) {
	temperature := DefaultAnthropicTemperature
	if temperature == 0.0 {
		t.Error("Default temperature should not be zero")
	}

	req := AnthropicChatRequest{
		Model:       "test-model",
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		System:      "system prompt",
		Messages: []AnthropicMessage{
			{Role: "user", Content: "user prompt"},
		},
	}

	if req.System != "system prompt" {
		t.Errorf("Expected system prompt to be set, got %s", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Error("Expected a single user message")
	}
}
