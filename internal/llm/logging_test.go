package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/grammiz/internal/store"
)

func openTestRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLogging_RecordsSuccessfulRequest(t *testing.T) {
	repo := openTestRepo(t)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"explanation":"x"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16},
	})
	p := WithLogging(mock, repo, zaptest.NewLogger(t))

	ctx := WithPurpose(context.Background(), "explanation")
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "why is it 'is'?"}},
		Schema:   &Schema{Name: "grammar-explanation", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)

	events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "mock", e.Provider)
	assert.Equal(t, "mock", e.Model)
	assert.Equal(t, "explanation", e.Purpose)
	assert.Equal(t, 12, e.InputTokens)
	assert.True(t, e.Success)
	assert.Equal(t, `{"explanation":"x"}`, e.ResponseBody)
	assert.True(t, strings.Contains(e.RequestBody, "[schema: grammar-explanation]"))
	assert.True(t, strings.Contains(e.RequestBody, "[user]\nwhy is it 'is'?"))
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := openTestRepo(t)
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	p := WithLogging(mock, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.Equal(t, "unknown", events[0].Purpose)
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	repo := openTestRepo(t)

	t.Run("mock", func(t *testing.T) {
		p, err := NewProvider(context.Background(), Config{Provider: "mock", Retry: RetryConfig{MaxAttempts: 1}}, repo, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", p.Name())
	})

	t.Run("openrouter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = "sk-or-test"
		p, err := NewProvider(context.Background(), cfg, repo, nil)
		require.NoError(t, err)
		assert.Equal(t, "openrouter", p.Name())
		assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewProvider(context.Background(), Config{Provider: "anthropic"}, repo, nil)
		assert.Error(t, err)
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := NewProvider(context.Background(), DefaultConfig(), repo, nil)
		assert.Error(t, err)
	})
}

func TestConfig_Discover(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := DefaultConfig()
	assert.False(t, cfg.Discover())
	assert.False(t, cfg.Enabled())

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	assert.True(t, cfg.Discover())
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)

	explicit := Config{Provider: "mock"}
	assert.False(t, explicit.Discover())
	assert.Equal(t, "mock", explicit.Provider)

	named := Config{Provider: "openrouter"}
	assert.False(t, named.Discover())
	assert.Equal(t, "sk-or", named.OpenRouter.APIKey, "a named provider still picks up its standard key")
	assert.Empty(t, named.Anthropic.APIKey)
}
