package llm

import "errors"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider reaches many vendors' models through OpenRouter's
// chat completions endpoint. Model IDs carry a vendor prefix and are sent
// as given.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return &OpenRouterProvider{newChatCompletionsProvider("openrouter", cfg.APIKey, base, cfg.Model)}, nil
}
