package providers

import (
	"context"
	"fmt"
)

// GenerateRequest carries the prompts for one generation call.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// GenerateResponse is the raw text a provider returned.
type GenerateResponse struct {
	Content    string
	TokensUsed int
}

// Generator is the provider abstraction.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// New creates a provider by name.
func New(provider, model string) (Generator, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
