package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.5-flash",
	"gemini-flash-lite": "gemini-2.5-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req.Messages), geminiConfig(p.model, req))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	r := reply{content: json.RawMessage(result.Text()), model: p.model}
	r.stop, r.reason = geminiStop(result)
	if result.ModelVersion != "" {
		r.model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		// Thinking tokens are billed as output.
		out := int(u.CandidatesTokenCount + u.ThoughtsTokenCount)
		r.usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: out, TotalTokens: int(u.TotalTokenCount)}
	}
	return finish(req, r)
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Name() string { return "gemini" }

// geminiConfig turns thinking off where the model allows it. Tutor replies
// are short, and thinking tokens count against MaxOutputTokens.
func geminiConfig(model string, req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if !strings.Contains(model, "-pro") {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}
	return config
}

func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	return out
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// buildGeminiSchema converts the JSON Schema subset our schemas use into
// Gemini's schema type. Properties keep the required-first order so the
// model writes the explanation before the example.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{Type: genai.TypeString}
	if t, ok := geminiTypes[stringOf(def["type"])]; ok {
		schema.Type = t
	}
	schema.Description = stringOf(def["description"])
	schema.Required = stringsOf(def["required"])
	schema.Enum = stringsOf(def["enum"])
	if n, ok := def["minLength"].(int); ok {
		schema.MinLength = genai.Ptr(int64(n))
	}
	if n, ok := def["minItems"].(int); ok {
		schema.MinItems = genai.Ptr(int64(n))
	}
	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	props, _ := def["properties"].(map[string]any)
	if len(props) == 0 {
		return schema
	}
	schema.Properties = make(map[string]*genai.Schema, len(props))
	var rest []string
	for name, v := range props {
		if sub, ok := v.(map[string]any); ok {
			schema.Properties[name] = buildGeminiSchema(sub)
			if !slices.Contains(schema.Required, name) {
				rest = append(rest, name)
			}
		}
	}
	slices.Sort(rest)
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; ok {
			schema.PropertyOrdering = append(schema.PropertyOrdering, name)
		}
	}
	schema.PropertyOrdering = append(schema.PropertyOrdering, rest...)
	return schema
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func stringsOf(v any) []string {
	var out []string
	switch vs := v.(type) {
	case []string:
		out = append(out, vs...)
	case []any:
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// geminiStop treats a blocked prompt and the safety-family finish reasons
// as refusals.
func geminiStop(result *genai.GenerateContentResponse) (string, string) {
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return StopBlocked, "prompt " + strings.ToLower(string(fb.BlockReason))
	}
	if len(result.Candidates) == 0 {
		return StopEnd, ""
	}
	switch fr := result.Candidates[0].FinishReason; fr {
	case "MAX_TOKENS":
		return StopMaxTokens, ""
	case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST", "SPII", "RECITATION":
		return StopBlocked, strings.ToLower(string(fr))
	default:
		return StopEnd, ""
	}
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus(apiErrPtr.Code, err)
	}
	return classifyStatus(0, err)
}
