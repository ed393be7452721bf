package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicProvider{client: &client, model: resolveModel(cfg.Model, anthropicModels)}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	msg, err := p.client.Messages.New(ctx, anthropicParams(p.model, req))
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	stop, reason := anthropicStop(msg.StopReason)
	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return finish(req, reply{
		content: anthropicText(msg),
		stop:    stop,
		reason:  reason,
		model:   string(msg.Model),
		usage:   Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	})
}

// anthropicParams maps a request onto the Messages API. Structured
// requests use the JSON output format rather than a forced tool call.
func anthropicParams(model string, req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		turn := anthropic.NewUserMessage
		if m.Role == RoleAssistant {
			turn = anthropic.NewAssistantMessage
		}
		params.Messages = append(params.Messages, turn(anthropic.NewTextBlock(m.Content)))
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}

func (p *AnthropicProvider) ModelID() string { return p.model }

func (p *AnthropicProvider) Name() string { return "anthropic" }

// anthropicText joins every text block; a reply may split prose across
// several blocks.
func anthropicText(msg *anthropic.Message) json.RawMessage {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return json.RawMessage(sb.String())
}

func anthropicStop(reason anthropic.StopReason) (string, string) {
	switch reason {
	case "max_tokens":
		return StopMaxTokens, ""
	case "refusal":
		return StopBlocked, "refusal"
	default:
		return StopEnd, ""
	}
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, err)
	}
	return classifyStatus(0, err)
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are taken to be model IDs already.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
