package llm

import (
	"strings"
)

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of the given token counts.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

// priceRule prices every model whose ID starts with prefix.
type priceRule struct {
	prefix string
	price  Price
}

// priceList covers the model families the tutor is configured with.
// Longer prefixes must precede shorter ones that they extend.
// Prices as of 2026-02.
var priceList = []priceRule{
	// Anthropic
	{"claude-haiku-4-5", Price{1, 5}},
	{"claude-3-5-haiku", Price{0.8, 4}},
	{"claude-3-haiku", Price{0.25, 1.25}},
	{"claude-sonnet-4", Price{3, 15}},
	{"claude-3-7-sonnet", Price{3, 15}},
	{"claude-3-5-sonnet", Price{3, 15}},
	{"claude-opus-4-5", Price{5, 25}},
	{"claude-opus-4-6", Price{5, 25}},
	{"claude-opus-4", Price{15, 75}},

	// OpenAI
	{"gpt-4o-mini", Price{0.15, 0.6}},
	{"gpt-4o-2024-05-13", Price{5, 15}},
	{"gpt-4o", Price{2.5, 10}},
	{"gpt-4.1-nano", Price{0.1, 0.4}},
	{"gpt-4.1-mini", Price{0.4, 1.6}},
	{"gpt-4.1", Price{2, 8}},
	{"gpt-5-nano", Price{0.05, 0.4}},
	{"gpt-5-mini", Price{0.25, 2}},
	{"gpt-5.1-codex-mini", Price{0.25, 2}},
	{"gpt-5.2", Price{1.75, 14}},
	{"gpt-5.1", Price{1.25, 10}},
	{"gpt-5", Price{1.25, 10}},
	{"gpt-3.5-turbo", Price{0.5, 1.5}},
	{"o4-mini", Price{1.1, 4.4}},
	{"o3-mini", Price{1.1, 4.4}},

	// Google
	{"gemini-2.5-flash-lite", Price{0.1, 0.4}},
	{"gemini-2.5-flash", Price{0.3, 2.5}},
	{"gemini-2.5-pro", Price{1.25, 10}},
	{"gemini-2.0-flash-lite", Price{0.075, 0.3}},
	{"gemini-2.0-flash", Price{0.1, 0.4}},
	{"gemini-3-flash", Price{0.5, 3}},
	{"gemini-3-pro", Price{2, 12}},
	{"gemini-flash-lite-latest", Price{0.1, 0.4}},
	{"gemini-flash-latest", Price{0.3, 2.5}},
}

// LookupPrice returns the price for a model ID. Dated suffixes and
// OpenRouter vendor prefixes ("anthropic/claude-haiku-4-5") are accepted.
func LookupPrice(modelID string) (Price, bool) {
	id := strings.ToLower(modelID)
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	id = strings.TrimSuffix(id, ":free")
	for _, r := range priceList {
		if strings.HasPrefix(id, r.prefix) {
			return r.price, true
		}
	}
	return Price{}, false
}

// EstimateCost prices token usage for a model. ok is false when the model
// is not in the price list.
func EstimateCost(modelID string, inputTokens, outputTokens int) (usd float64, ok bool) {
	p, ok := LookupPrice(modelID)
	if !ok {
		return 0, false
	}
	return p.Cost(inputTokens, outputTokens), true
}
