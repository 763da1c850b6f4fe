package services

import "context"

// GenerationService is the provider-agnostic interface for narrative
// generation. Complete sends one system/user prompt pair and returns the
// raw response text with the completion token count. When structured is
// true, providers that support schema-constrained output enable it.
type GenerationService interface {
	InitModel(ctx context.Context, modelName string) error
	Complete(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error)
}
