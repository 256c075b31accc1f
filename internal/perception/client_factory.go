package perception

import (
	"context"
	"fmt"

	"sprinkle/internal/config"
)

// Provider names a text-generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
)

// NewClientFromConfig validates cfg and builds the client for its provider, wrapped in a
// TracingLLMClient.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (*TracingLLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch Provider(cfg.LLM.Provider) {
	case ProviderGemini:
		gc := DefaultGeminiConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			gc.Model = cfg.LLM.Model
		}
		gc.Temperature = cfg.LLM.Temperature
		if cfg.LLM.MaxOutputTokens > 0 {
			gc.MaxOutputTokens = cfg.LLM.MaxOutputTokens
		}
		gc.Timeout = cfg.GetLLMTimeout()

		client, err := NewGeminiClientWithConfig(ctx, gc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewTracingLLMClient(client), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.LLM.Provider)
	}
}
