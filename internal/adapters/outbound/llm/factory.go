// Package llm holds the chat-completion adapters behind domain.LLMClient.
package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// New builds the client for cfg.Provider. The credential must already be
// resolved into cfg.APIKey.
func New(ctx context.Context, cfg domain.LLMConfig, logger *zap.Logger) (domain.LLMClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for provider %q", domain.ErrConfig, cfg.Provider)
	}

	switch cfg.Provider {
	case domain.ProviderOpenAI, "":
		return NewOpenAIClient(cfg, logger), nil
	case domain.ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfig, cfg.Provider)
	}
}
