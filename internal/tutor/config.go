package tutor

import "time"

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Timeout bounds one explanation request, retries included.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for explanation generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   384,
		Temperature: 0.3,
		Timeout:     20 * time.Second,
	}
}
