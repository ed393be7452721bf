package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

// anthropicReply serves a message with the given text blocks and stop reason.
func anthropicReply(stop string, texts ...string) http.HandlerFunc {
	blocks := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     blocks,
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func explainRequest() Request {
	return Request{
		System:    "You are an English grammar tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Why is \"She are\" wrong?"}},
		MaxTokens: 256,
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("end_turn",
		`{"explanation":"Use is with he.","tip":"he, she, it take is"}`))

	resp, err := p.Generate(context.Background(), explainRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 30 || resp.Usage.TotalTokens != 80 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("unexpected model %q", resp.Model)
	}
}

func TestAnthropicProvider_JoinsTextBlocks(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("end_turn", `{"rule":"she takes is",`, `"correct":false}`))

	req := explainRequest()
	req.Schema = testSchema()
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"rule":"she takes is","correct":false}` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
}

func TestAnthropicProvider_ReplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		schema  bool
		check   func(error) bool
	}{
		{
			name:    "refusal",
			handler: anthropicReply("refusal"),
			check:   func(err error) bool { var e *ErrRefused; return errors.As(err, &e) },
		},
		{
			name:    "no text",
			handler: anthropicReply("end_turn"),
			check:   func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:    "truncated json",
			handler: anthropicReply("max_tokens", `{"rule":"she ta`),
			schema:  true,
			check:   func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			name:    "rate limited",
			handler: anthropicStatus(http.StatusTooManyRequests, "rate_limit_error"),
			check:   func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:    "server error",
			handler: anthropicStatus(http.StatusInternalServerError, "api_error"),
			check:   func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			req := explainRequest()
			if tt.schema {
				req.Schema = testSchema()
			}
			_, err := p.Generate(context.Background(), req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error type %T (%v)", err, err)
			}
		})
	}
}

func anthropicStatus(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := map[string]string{
		"claude-sonnet":            "claude-sonnet-4-5-20250929",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	}
	for in, want := range tests {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAnthropicParams(t *testing.T) {
	req := Request{
		System: "You are an English grammar tutor.",
		Messages: []Message{
			{Role: RoleUser, Content: "Why is \"She are\" wrong?"},
			{Role: RoleAssistant, Content: "Because she takes is."},
			{Role: RoleUser, Content: "And they?"},
		},
		MaxTokens: 128,
	}
	params := anthropicParams("claude-haiku-4-5", req)

	if len(params.Messages) != 3 || params.Messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Fatalf("unexpected turns %+v", params.Messages)
	}
	if len(params.System) != 1 || params.System[0].Text != req.System {
		t.Fatalf("unexpected system %+v", params.System)
	}
	if params.Temperature.Valid() {
		t.Fatal("expected the default temperature to be left unset")
	}
}
