package services

import (
	"context"
	"sync"
)

// MockGenerationService is a mock implementation of GenerationService for testing
type MockGenerationService struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	CompleteFunc  func(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error)

	// Track calls for testing
	InitModelCalls []string
	CompleteCalls  []CompleteCall

	mu sync.Mutex // protects all fields above
}

type CompleteCall struct {
	SystemPrompt string
	UserPrompt   string
	Structured   bool
}

// NewMockGenerationService creates a new mock generation service
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		InitModelCalls: make([]string, 0),
		CompleteCalls:  make([]CompleteCall, 0),
	}
}

// InitModel mocks model initialization
func (m *MockGenerationService) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Complete mocks narrative generation. Without a CompleteFunc it returns
// a minimal valid story event.
func (m *MockGenerationService) Complete(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls = append(m.CompleteCalls, CompleteCall{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Structured:   structured,
	})

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt, structured)
	}

	return `{"title":"A Quiet Day","description":"Nothing of note happened.","effects":[]}`, 12, nil
}

// Calls returns a copy of the recorded Complete calls.
func (m *MockGenerationService) Calls() []CompleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompleteCall, len(m.CompleteCalls))
	copy(out, m.CompleteCalls)
	return out
}
