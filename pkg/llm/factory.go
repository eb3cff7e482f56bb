package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewFromConfig creates an LLM client for the configured provider.
// Returns (nil, nil) when cfg is nil or carries no model, which callers
// treat as "classifier unavailable" and handle by falling back to the
// deterministic mapper.
func NewFromConfig(cfg *Config, logger *zap.Logger) (Client, error) {
	if cfg == nil || cfg.Model == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
