package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPrice(t *testing.T) {
	tests := []struct {
		model string
		want  Price
		ok    bool
	}{
		{"claude-haiku-4-5-20251001", Price{1, 5}, true},
		{"claude-opus-4-1-20250805", Price{15, 75}, true},
		{"claude-opus-4-5", Price{5, 25}, true},
		{"gpt-4o-mini", Price{0.15, 0.6}, true},
		{"gpt-4o-2024-08-06", Price{2.5, 10}, true},
		{"gpt-5-mini", Price{0.25, 2}, true},
		{"gemini-2.5-flash-lite-preview-09-2025", Price{0.1, 0.4}, true},
		{"google/gemini-2.0-flash-exp", Price{0.1, 0.4}, true},
		{"google/gemini-2.0-flash-exp:free", Price{0.1, 0.4}, true},
		{"Anthropic/Claude-Haiku-4-5", Price{1, 5}, true},
		{"llama-3-70b", Price{}, false},
		{"", Price{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := LookupPrice(tt.model)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateCost(t *testing.T) {
	usd, ok := EstimateCost("gpt-4o-mini", 1_000_000, 500_000)
	assert.True(t, ok)
	assert.InDelta(t, 0.45, usd, 1e-9)

	usd, ok = EstimateCost("claude-haiku-4-5", 1_000_000, 0)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, usd, 1e-9)

	usd, ok = EstimateCost("unknown-model", 10, 10)
	assert.False(t, ok)
	assert.Zero(t, usd)
}

// Every prefix must be reachable: no earlier rule may shadow a later one.
func TestPriceListOrder(t *testing.T) {
	for i, later := range priceList {
		for _, earlier := range priceList[:i] {
			assert.NotEqual(t, earlier.prefix, later.prefix)
			if len(earlier.prefix) < len(later.prefix) {
				assert.False(t, hasPrefix(later.prefix, earlier.prefix),
					"%q shadows %q", earlier.prefix, later.prefix)
			}
		}
	}
}

func hasPrefix(s, p string) bool {
	return len(s) >= len(p) && s[:len(p)] == p
}
