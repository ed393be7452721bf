package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-mini": "gpt-4.1-mini",
	"gpt-nano": "gpt-4.1-nano",
}

// OpenAIProvider talks the chat completions protocol, to OpenAI itself or
// to any compatible server named by BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newChatCompletionsProvider("openai", cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels)), nil
}

// newChatCompletionsProvider builds a client reporting itself as name.
// An empty baseURL keeps the SDK's default endpoint.
func newChatCompletionsProvider(name, apiKey, baseURL, model string) *OpenAIProvider {
	cc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cc), model: model, name: name}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            openAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		format, err := openAIResponseFormat(req.Schema)
		if err != nil {
			return nil, err
		}
		chat.ResponseFormat = format
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	stop, reason := openAIStop(choice)
	return finish(req, reply{
		content: json.RawMessage(choice.Message.Content),
		stop:    stop,
		reason:  reason,
		model:   resp.Model,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	})
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Name() string { return p.name }

var openAIRoles = map[Role]string{
	RoleUser:      openai.ChatMessageRoleUser,
	RoleAssistant: openai.ChatMessageRoleAssistant,
}

// openAIMessages puts the system prompt first, as a message of its own.
func openAIMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role, ok := openAIRoles[m.Role]
		if !ok {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// openAIResponseFormat asks for JSON matching the schema. Strict mode is
// only requested when the schema meets its rules, since the API rejects
// strict schemas with optional or open-ended properties.
func openAIResponseFormat(s *Schema) (*openai.ChatCompletionResponseFormat, error) {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        s.Name,
			Description: s.Description,
			Schema:      json.RawMessage(def),
			Strict:      strictCompatible(s.Definition),
		},
	}, nil
}

// strictCompatible reports whether every object in def closes its
// properties and requires all of them.
func strictCompatible(def map[string]any) bool {
	if items, ok := def["items"].(map[string]any); ok && !strictCompatible(items) {
		return false
	}
	props, ok := def["properties"].(map[string]any)
	if !ok {
		return true
	}
	if open, ok := def["additionalProperties"].(bool); !ok || open {
		return false
	}
	required := stringsOf(def["required"])
	if len(required) != len(props) {
		return false
	}
	for _, name := range required {
		sub, ok := props[name].(map[string]any)
		if !ok || !strictCompatible(sub) {
			return false
		}
	}
	return true
}

// openAIStop reads refusals from either the finish reason or the message's
// refusal field, which structured-output requests fill instead of content.
func openAIStop(choice openai.ChatCompletionChoice) (string, string) {
	switch {
	case choice.Message.Refusal != "":
		return StopBlocked, choice.Message.Refusal
	case choice.FinishReason == openai.FinishReasonContentFilter:
		return StopBlocked, "content filter"
	case choice.FinishReason == openai.FinishReasonLength:
		return StopMaxTokens, ""
	default:
		return StopEnd, ""
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}
	return classifyStatus(0, err)
}
