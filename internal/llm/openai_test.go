package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// newServer serves handler for the length of the test and returns its URL.
func newServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	config := openai.DefaultConfig("test-key")
	config.BaseURL = newServer(t, handler) + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
		name:   "openai",
	}
}

// openAIReply serves a single-choice completion. message holds the
// assistant message fields (content, refusal).
func openAIReply(finish string, message map[string]any) http.HandlerFunc {
	message["role"] = "assistant"
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{
				{"index": 0, "message": message, "finish_reason": finish},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply("stop", map[string]any{
		"content": `{"explanation":"Use is with he.","tip":"he, she, it take is"}`,
	}))

	resp, err := p.Generate(context.Background(), explainRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage != (Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}) {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("expected the serving model, got %q", resp.Model)
	}
}

func TestOpenAIProvider_Refusal(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply("stop", map[string]any{
		"content": "",
		"refusal": "I can't help with that.",
	}))

	_, err := p.Generate(context.Background(), explainRequest())
	var refused *ErrRefused
	if !errors.As(err, &refused) {
		t.Fatalf("expected ErrRefused, got %T (%v)", err, err)
	}
	if refused.Reason != "I can't help with that." {
		t.Fatalf("unexpected reason %q", refused.Reason)
	}
}

func TestOpenAIProvider_ReplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		schema  bool
		check   func(error) bool
	}{
		{
			name:    "content filter",
			handler: openAIReply("content_filter", map[string]any{"content": ""}),
			check:   func(err error) bool { var e *ErrRefused; return errors.As(err, &e) },
		},
		{
			name:    "blank content",
			handler: openAIReply("stop", map[string]any{"content": "  "}),
			check:   func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:    "truncated json",
			handler: openAIReply("length", map[string]any{"content": `{"rule":"they ta`}),
			schema:  true,
			check:   func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			name:    "schema mismatch",
			handler: openAIReply("stop", map[string]any{"content": `{"rule":"they take are"}`}),
			schema:  true,
			check:   func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:    "rate limited",
			handler: openAIStatus(http.StatusTooManyRequests, "rate_limit_exceeded"),
			check:   func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:    "server error",
			handler: openAIStatus(http.StatusInternalServerError, "server_error"),
			check:   func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, tt.handler)
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

func openAIStatus(status int, code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": code, "type": code, "code": code},
		})
	}
}

func TestOpenAIProvider_SendsSchema(t *testing.T) {
	var sent struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		ResponseFormat struct {
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		openAIReply("stop", map[string]any{"content": `{"rule":"she takes is","correct":false}`})(w, r)
	})

	req := explainRequest()
	req.Schema = testSchema()
	if _, err := p.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system prompt first, got %+v", sent.Messages)
	}
	if sent.ResponseFormat.JSONSchema.Name != "answer-check" || sent.ResponseFormat.JSONSchema.Strict {
		t.Fatalf("expected the non-strict schema as response format, got %+v", sent.ResponseFormat)
	}
}

func TestStrictCompatible(t *testing.T) {
	closed := func(props map[string]any, required ...any) map[string]any {
		return map[string]any{"type": "object", "properties": props, "required": required, "additionalProperties": false}
	}
	str := map[string]any{"type": "string"}

	tests := []struct {
		name string
		def  map[string]any
		want bool
	}{
		{"scalar", str, true},
		{"closed and all required", closed(map[string]any{"a": str, "b": str}, "a", "b"), true},
		{"optional property", testSchema().Definition, false},
		{"open object", map[string]any{"type": "object", "properties": map[string]any{"a": str}, "required": []any{"a"}}, false},
		{"nested open object", closed(map[string]any{"a": map[string]any{"type": "object", "properties": map[string]any{}}}, "a"), false},
		{"array of closed objects", map[string]any{"type": "array", "items": closed(map[string]any{"a": str}, "a")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strictCompatible(tt.def); got != tt.want {
				t.Fatalf("strictCompatible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenAIProvider_ModelAliases(t *testing.T) {
	for alias, want := range map[string]string{"gpt-mini": "gpt-4.1-mini", "gpt-4o-mini": "gpt-4o-mini"} {
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: alias})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != want || p.Name() != "openai" {
			t.Fatalf("%s: unexpected provider %q/%q", alias, p.Name(), p.ModelID())
		}
	}
}
