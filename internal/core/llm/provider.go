package llm

import (
	"context"
	"fmt"

	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/config"
)

// Provider abstracts the language model backend.
type Provider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
)

// NewProvider builds the configured provider. Gemini is the default backend.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch ProviderType(cfg.LLMProvider) {
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return NewGeminiProvider(cfg.GeminiKey, cfg.LLMModel)

	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.LLMModel), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.LLMProvider)
	}
}
