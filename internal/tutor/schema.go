package tutor

import "github.com/abhisek/grammiz/internal/llm"

// ExplanationSchema defines the JSON schema for a mistake explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "grammar-explanation",
	Description: "A short explanation of why a learner's answer to a grammar question is wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is right and the chosen one is wrong (2-3 sentences)",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "A memorable rule of thumb (one sentence, under 15 words)",
			},
			"example": map[string]any{
				"type":        "string",
				"description": "One new example sentence that uses the same rule",
			},
		},
		"required":             []any{"explanation", "tip", "example"},
		"additionalProperties": false,
	},
}
