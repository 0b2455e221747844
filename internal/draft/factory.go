package draft

import (
	"fmt"
	"strings"

	"predscan/internal/model"
)

// NewProvider creates a drafting provider from configuration. An empty
// provider name disables drafting and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown draft provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the runtime draft configuration
func ConfigFromModel(cfg model.DraftConfig, registry model.RegistryConfig) Config {
	return Config{
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		StrictGrounding: cfg.StrictGrounding,
		MaxTokens:       cfg.MaxTokens,
		HTTPProxy:       registry.HTTPProxy,
		HTTPSProxy:      registry.HTTPSProxy,
		NoProxy:         registry.NoProxy,
	}
}
