package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	veniceBaseURL = "https://api.venice.ai/api/v1"

	DefaultVeniceTemperature = 0.7
	DefaultVeniceMaxTokens   = 2048
)

// VeniceService implements GenerationService for Venice AI
type VeniceService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
}

type VeniceResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema VeniceJSONSchema `json:"json_schema"`
}

type VeniceJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type VeniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

type VeniceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VeniceChatRequest represents the request structure for Venice AI chat completions
type VeniceChatRequest struct {
	Model            string                `json:"model"`
	Messages         []VeniceMessage       `json:"messages"`
	Temperature      float64               `json:"temperature,omitempty"`
	MaxTokens        int                   `json:"max_tokens,omitempty"`
	Stream           bool                  `json:"stream"`
	ResponseFormat   *VeniceResponseFormat `json:"response_format,omitempty"`
	VeniceParameters VeniceParameters      `json:"venice_parameters"`
}

// VeniceChatChoice represents a single choice in the Venice AI response
type VeniceChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// VeniceChatResponse represents the response structure for Venice AI chat completions
type VeniceChatResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []VeniceChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewVeniceService creates a new Venice AI service
func NewVeniceService(apiKey string, modelName string) *VeniceService {
	return &VeniceService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// InitModel initializes the model (Venice AI doesn't require explicit model initialization)
func (v *VeniceService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// Complete sends one system/user prompt pair. When structured is true the
// request carries a strict JSON schema for the story event shape and
// temperature 0 for deterministic output.
func (v *VeniceService) Complete(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error) {
	temperature := DefaultVeniceTemperature
	var responseFormat *VeniceResponseFormat
	if structured {
		temperature = 0.0
		responseFormat = v.getStoryEventResponseFormat()
	}

	veniceReq := VeniceChatRequest{
		Model: v.modelName,
		Messages: []VeniceMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    temperature,
		MaxTokens:      DefaultVeniceMaxTokens,
		Stream:         false,
		ResponseFormat: responseFormat,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	reqBody, err := json.Marshal(veniceReq)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", veniceBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var veniceResp VeniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return "", 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if veniceResp.Error != nil {
		return "", 0, fmt.Errorf("API error: %s", veniceResp.Error.Message)
	}

	if len(veniceResp.Choices) == 0 {
		return "", veniceResp.Usage.CompletionTokens, nil
	}

	return veniceResp.Choices[0].Message.Content, veniceResp.Usage.CompletionTokens, nil
}

// getStoryEventResponseFormat returns the strict response format for
// structured story event generation.
func (v *VeniceService) getStoryEventResponseFormat() *VeniceResponseFormat {
	effectSchema := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"effectType": map[string]interface{}{
				"type": "string",
			},
			"intensity": map[string]interface{}{
				"type": "integer",
			},
			"target": map[string]interface{}{
				"type": []string{"string", "null"},
			},
		},
		"required": []string{"effectType", "intensity"},
	}

	return &VeniceResponseFormat{
		Type: "json_schema",
		JSONSchema: VeniceJSONSchema{
			Name:   "story_event",
			Strict: true,
			Schema: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type": "string",
					},
					"description": map[string]interface{}{
						"type": "string",
					},
					"effects": map[string]interface{}{
						"type":  "array",
						"items": effectSchema,
					},
					"choices": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"text": map[string]interface{}{
									"type": "string",
								},
								"effects": map[string]interface{}{
									"type":  "array",
									"items": effectSchema,
								},
							},
							"required": []string{"text", "effects"},
						},
					},
					"items": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"name": map[string]interface{}{
									"type": "string",
								},
								"type": map[string]interface{}{
									"type": "string",
								},
							},
							"required": []string{"name", "type"},
						},
					},
				},
				"required": []string{"title", "description", "effects"},
			},
		},
	}
}
