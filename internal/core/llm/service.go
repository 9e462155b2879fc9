package llm

import (
	"context"
	"log"

	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/config"
)

// Service wraps the provider for dependency injection.
type Service struct {
	provider Provider
}

// NewService creates the LLM service from config; called once at startup.
func NewService(cfg *config.Config) *Service {
	provider, err := NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create LLM provider: %v", err)
	}

	log.Printf("🤖 Using LLM provider: %s", provider.GetProviderName())

	return &Service{provider: provider}
}

// NewServiceWithProvider creates a service with a custom provider (for testing).
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
