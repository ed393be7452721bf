package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the tutor's LLM backend. Field tags match
// the keys read by the config package.
type Config struct {
	// Provider is "anthropic", "openai", "gemini", "openrouter" or "mock".
	// Empty disables the tutor.
	Provider string `mapstructure:"provider"`

	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig also serves OpenAI-compatible servers through BaseURL.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig takes vendor-prefixed model IDs such as
// "google/gemini-2.5-flash". BaseURL defaults to the public endpoint.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig shapes the backoff between attempts. MaxWait also caps a
// rate limit's requested delay.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig picks small, fast models. The provider is left empty so
// the tutor stays off until a key is configured.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// Enabled reports whether a provider has been selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// backend ties a provider name to the conventional env var holding its key
// and the config field the key lives in.
type backend struct {
	name   string
	envVar string
	key    func(*Config) *string
}

// backends is in discovery order.
var backends = []backend{
	{"gemini", "GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"openai", "OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"anthropic", "ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"openrouter", "OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// Discover selects the first backend whose standard API key variable is
// set and reports whether it did. A provider that is already named only
// gets its key filled from that variable when none was configured.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		for _, b := range backends {
			if b.name == c.Provider && *b.key(c) == "" {
				*b.key(c) = os.Getenv(b.envVar)
			}
		}
		return false
	}
	for _, b := range backends {
		if k := os.Getenv(b.envVar); k != "" {
			c.Provider = b.name
			*b.key(c) = k
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "mock":
		return nil
	}
	for _, b := range backends {
		if b.name != c.Provider {
			continue
		}
		if *b.key(&c) == "" {
			return fmt.Errorf("GRAMMIZ_LLM_%s_API_KEY or %s is required for the %s provider", strings.ToUpper(b.name), b.envVar, b.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
