package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"rule":"I takes am","correct":true}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`Use "are" with we.`), Stop: StopMaxTokens},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "check", Schema: testSchema()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Usage.TotalTokens != 15 || first.Model != "mock" || first.StopReason != StopEnd {
		t.Fatalf("unexpected first reply %+v", first)
	}

	second, err := mock.Generate(ctx, Request{System: "hint"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.StopReason != StopMaxTokens {
		t.Fatalf("expected %q, got %q", StopMaxTokens, second.StopReason)
	}

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) || !errors.Is(err, errScriptExhausted) {
		t.Fatalf("expected exhausted script, got %v", err)
	}

	if mock.CallCount() != 3 || mock.Calls[0].System != "check" || mock.Calls[1].System != "hint" {
		t.Fatalf("calls not recorded in order: %+v", mock.Calls)
	}
}

func TestMockProvider_ChecksLikeARealBackend(t *testing.T) {
	tests := []struct {
		name  string
		reply MockResponse
		check func(error) bool
	}{
		{
			name:  "scripted error",
			reply: MockResponse{Err: &ErrRateLimit{}},
			check: func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:  "schema mismatch",
			reply: MockResponse{Content: json.RawMessage(`{"rule":"x"}`)},
			check: func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:  "blocked",
			reply: MockResponse{Content: json.RawMessage(`{}`), Stop: StopBlocked, Reason: "safety"},
			check: func(err error) bool { var e *ErrRefused; return errors.As(err, &e) && e.Reason == "safety" },
		},
		{
			name:  "truncated",
			reply: MockResponse{Content: json.RawMessage(`{"rule":`), Stop: StopMaxTokens},
			check: func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMockProvider(tt.reply).Generate(context.Background(), Request{Schema: testSchema()})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %T (%v)", err, err)
			}
		})
	}
}

func TestPurposeFrom(t *testing.T) {
	if p := PurposeFrom(context.Background()); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx := WithPurpose(WithPurpose(context.Background(), "explanation"), "hint")
	if p := PurposeFrom(ctx); p != "hint" {
		t.Fatalf("expected the innermost purpose, got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(provider string) Config {
		c := Config{Provider: provider}
		for _, b := range backends {
			if b.name == provider {
				*b.key(&c) = "sk-test"
			}
		}
		return c
	}

	for _, name := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		t.Run(name, func(t *testing.T) {
			err := Config{Provider: name}.Validate()
			if err == nil || !strings.Contains(err.Error(), "_API_KEY") {
				t.Fatalf("expected a missing key error naming the variable, got %v", err)
			}
			if err := withKey(name).Validate(); err != nil {
				t.Fatalf("unexpected error with key: %v", err)
			}
		})
	}

	for provider, wantErr := range map[string]bool{"": false, "mock": false, "llama": true} {
		if err := (Config{Provider: provider}).Validate(); (err != nil) != wantErr {
			t.Fatalf("Validate(%q) error = %v, wantErr %v", provider, err, wantErr)
		}
	}
}

func TestFinish(t *testing.T) {
	schemaReq := Request{Schema: testSchema()}
	valid := json.RawMessage(`{"rule":"I takes am","correct":true}`)

	resp, err := finish(schemaReq, reply{content: valid, model: "m", usage: Usage{TotalTokens: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopEnd || resp.Model != "m" || resp.Usage.TotalTokens != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}

	// Plain-text requests may end on max_tokens; the partial text is kept.
	resp, err = finish(Request{}, reply{content: json.RawMessage(`Use "is"`), stop: StopMaxTokens})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopMaxTokens {
		t.Fatalf("expected %q, got %q", StopMaxTokens, resp.StopReason)
	}

	_, err = finish(schemaReq, reply{content: json.RawMessage(`{"rule":`), stop: StopMaxTokens})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) || string(maxTok.Content) != `{"rule":` {
		t.Fatalf("expected ErrMaxTokensExceeded with partial content, got %v", err)
	}

	_, err = finish(Request{}, reply{content: valid, stop: StopBlocked, reason: "safety"})
	var refused *ErrRefused
	if !errors.As(err, &refused) || refused.Error() != "LLM declined to answer: safety" {
		t.Fatalf("expected ErrRefused, got %v", err)
	}

	_, err = finish(Request{}, reply{content: json.RawMessage("\n ")})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
